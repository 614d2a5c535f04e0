package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"dutytrip/internal/domain"
)

// CacheStore caches trip records in Redis for read-only detail lookups.
// The authoritative record always lives in PostgreSQL; entries here are
// invalidated on every lifecycle transition.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

const (
	tripCachePrefix = "cache:trip:"

	// TripCacheTTL is short because a PENDING trip can be claimed at any
	// moment and the cached copy must not mask the transition for long.
	TripCacheTTL = 15 * time.Second
)

// cachedTrip is the wire form of a cached trip record.
type cachedTrip struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	ServiceTier    string  `json:"service_tier"`
	State          string  `json:"state"`
	DriverID       string  `json:"driver_id,omitempty"`
	StartedAt      int64   `json:"started_at,omitempty"`
	EndedAt        int64   `json:"ended_at,omitempty"`
	BilledAmount   float64 `json:"billed_amount,omitempty"`
	NightSurcharge float64 `json:"night_surcharge,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}

// GetTrip retrieves a trip from cache. Returns nil on a miss.
func (s *CacheStore) GetTrip(ctx context.Context, code string) (*domain.Trip, error) {
	data, err := s.client.Get(ctx, tripCachePrefix+code).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var ct cachedTrip
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		ID:             ct.ID,
		Code:           ct.Code,
		ServiceTier:    domain.ServiceTier(ct.ServiceTier),
		State:          domain.TripState(ct.State),
		DriverID:       ct.DriverID,
		BilledAmount:   ct.BilledAmount,
		NightSurcharge: ct.NightSurcharge,
		CreatedAt:      time.Unix(ct.CreatedAt, 0),
	}
	if ct.StartedAt != 0 {
		trip.StartedAt = time.Unix(ct.StartedAt, 0)
	}
	if ct.EndedAt != 0 {
		trip.EndedAt = time.Unix(ct.EndedAt, 0)
	}

	return trip, nil
}

// SetTrip stores a trip in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	ct := cachedTrip{
		ID:             trip.ID,
		Code:           trip.Code,
		ServiceTier:    string(trip.ServiceTier),
		State:          string(trip.State),
		DriverID:       trip.DriverID,
		BilledAmount:   trip.BilledAmount,
		NightSurcharge: trip.NightSurcharge,
		CreatedAt:      trip.CreatedAt.Unix(),
	}
	if !trip.StartedAt.IsZero() {
		ct.StartedAt = trip.StartedAt.Unix()
	}
	if !trip.EndedAt.IsZero() {
		ct.EndedAt = trip.EndedAt.Unix()
	}

	data, err := json.Marshal(ct)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tripCachePrefix+trip.Code, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip from cache.
func (s *CacheStore) InvalidateTrip(ctx context.Context, code string) error {
	return s.client.Del(ctx, tripCachePrefix+code).Err()
}
