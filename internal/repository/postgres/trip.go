package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dutytrip/internal/domain"
	"dutytrip/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, code, service_tier, state, driver_id, started_at, ended_at, billed_amount, night_surcharge, created_at`

// scanTrip reads one trip row from any scannable source.
func scanTrip(row interface{ Scan(...any) error }) (*domain.Trip, error) {
	var trip domain.Trip
	var driverID sql.NullString
	var startedAt, endedAt sql.NullTime
	var billedAmount, nightSurcharge sql.NullFloat64

	err := row.Scan(
		&trip.ID,
		&trip.Code,
		&trip.ServiceTier,
		&trip.State,
		&driverID,
		&startedAt,
		&endedAt,
		&billedAmount,
		&nightSurcharge,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.DriverID = driverID.String
	if startedAt.Valid {
		trip.StartedAt = startedAt.Time
	}
	if endedAt.Valid {
		trip.EndedAt = endedAt.Time
	}
	trip.BilledAmount = billedAmount.Float64
	trip.NightSurcharge = nightSurcharge.Float64

	return &trip, nil
}

// InsertPending persists a newly issued trip in PENDING state.
func (r *TripRepository) InsertPending(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, code, service_tier, state, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.Code,
		trip.ServiceTier,
		domain.TripStatePending,
		trip.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateCode
		}
		return err
	}

	return nil
}

// Claim moves a PENDING trip to ACTIVE in a single conditional update.
// The state guard in the WHERE clause is what makes concurrent claims
// safe: the second claimer matches zero rows and gets ErrNotFound.
func (r *TripRepository) Claim(ctx context.Context, code, driverID string, startedAt time.Time) (*domain.Trip, error) {
	query := `
		UPDATE trips
		SET state = $1, driver_id = $2, started_at = $3
		WHERE code = $4 AND state = $5
		RETURNING ` + tripColumns

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query,
		domain.TripStateActive,
		driverID,
		startedAt,
		code,
		domain.TripStatePending,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// Complete moves an ACTIVE trip to COMPLETED in a single conditional
// update, persisting the end time and settlement amounts together.
func (r *TripRepository) Complete(ctx context.Context, code string, endedAt time.Time, billedAmount, nightSurcharge float64) (*domain.Trip, error) {
	query := `
		UPDATE trips
		SET state = $1, ended_at = $2, billed_amount = $3, night_surcharge = $4
		WHERE code = $5 AND state = $6
		RETURNING ` + tripColumns

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query,
		domain.TripStateCompleted,
		endedAt,
		billedAmount,
		nightSurcharge,
		code,
		domain.TripStateActive,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetByCode retrieves a trip by its code.
func (r *TripRepository) GetByCode(ctx context.Context, code string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE code = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetActiveByDriverID retrieves the driver's ACTIVE trip.
// Returns nil if the driver has no active trip.
func (r *TripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND state = $2
		LIMIT 1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, driverID, domain.TripStateActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// GetAll retrieves trips ordered by issuance recency.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
