package redis

import (
	"context"
	"time"

	"dutytrip/internal/domain"
)

// TripCacheInterface defines the interface for trip caching.
type TripCacheInterface interface {
	GetTrip(ctx context.Context, code string) (*domain.Trip, error)
	SetTrip(ctx context.Context, trip *domain.Trip) error
	InvalidateTrip(ctx context.Context, code string) error
}

// ThrottleInterface defines the interface for claim rate limiting.
type ThrottleInterface interface {
	AllowClaim(ctx context.Context, code string, window time.Duration) (bool, error)
	ResetClaim(ctx context.Context, code string) error
}

// Ensure concrete types implement interfaces.
var (
	_ TripCacheInterface = (*CacheStore)(nil)
	_ ThrottleInterface  = (*ThrottleStore)(nil)
)
