package repository

import (
	"context"
	"time"

	"dutytrip/internal/domain"
)

// TripRepository defines the persistence operations for duty trips.
//
// Claim and Complete are conditional updates: the state guard is checked
// and the row changed in one indivisible statement, so concurrent callers
// race on the store rather than in process. Both return ErrNotFound when
// the guard matched no row.
type TripRepository interface {
	// InsertPending persists a newly issued trip in PENDING state.
	// Returns ErrDuplicateCode if the code is already taken.
	InsertPending(ctx context.Context, trip *domain.Trip) error

	// Claim atomically moves the trip with this code from PENDING to
	// ACTIVE, recording the driver and start time. Returns the updated
	// trip, or ErrNotFound if no PENDING trip carries the code.
	Claim(ctx context.Context, code, driverID string, startedAt time.Time) (*domain.Trip, error)

	// Complete atomically moves the trip with this code from ACTIVE to
	// COMPLETED, recording the end time and settlement amounts. Returns
	// the finalized trip, or ErrNotFound if no ACTIVE trip carries the
	// code.
	Complete(ctx context.Context, code string, endedAt time.Time, billedAmount, nightSurcharge float64) (*domain.Trip, error)

	// GetByCode retrieves a trip by its code. Read-only.
	GetByCode(ctx context.Context, code string) (*domain.Trip, error)

	// GetActiveByDriverID retrieves the driver's ACTIVE trip, if any.
	// Returns nil without error when the driver has no active trip.
	// Read-only; used for session recovery after a client reattaches.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error)

	// GetAll retrieves trips ordered by issuance recency.
	GetAll(ctx context.Context) ([]*domain.Trip, error)
}
