package service

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"

	"dutytrip/internal/domain"
	"dutytrip/internal/redis"
	"dutytrip/internal/repository"
)

const claimThrottleWindow = time.Minute

// TripService owns the duty trip lifecycle: issuance, the claim and
// complete transitions, and read-only queries. Transition correctness
// under concurrency comes from the repository's conditional updates, not
// from any locking here.
type TripService struct {
	tripRepo repository.TripRepository
	cache    redis.TripCacheInterface
	throttle redis.ThrottleInterface
	notifier *NotificationService
}

// NewTripService creates a new TripService. cache, throttle and notifier
// may be nil; the lifecycle works without them.
func NewTripService(
	tripRepo repository.TripRepository,
	cache redis.TripCacheInterface,
	throttle redis.ThrottleInterface,
	notifier *NotificationService,
) *TripService {
	return &TripService{
		tripRepo: tripRepo,
		cache:    cache,
		throttle: throttle,
		notifier: notifier,
	}
}

// IssueTripRequest contains the parameters for issuing a trip.
type IssueTripRequest struct {
	Code        string // optional; generated when empty
	ServiceTier domain.ServiceTier
}

// IssueTrip creates a new trip in PENDING state with a one-time code.
// Administrative action.
func (s *TripService) IssueTrip(ctx context.Context, req IssueTripRequest) (*domain.Trip, error) {
	if !domain.ValidServiceTier(req.ServiceTier) {
		return nil, ErrInvalidServiceTier
	}

	code := req.Code
	if code == "" {
		generated, err := generateCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	trip := &domain.Trip{
		ID:          uuid.New().String(),
		Code:        code,
		ServiceTier: req.ServiceTier,
		State:       domain.TripStatePending,
		CreatedAt:   time.Now().Truncate(time.Second),
	}

	if err := s.tripRepo.InsertPending(ctx, trip); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	tripsIssued.Inc()
	return trip, nil
}

// ClaimTripRequest contains the parameters for claiming a trip.
type ClaimTripRequest struct {
	Code     string
	DriverID string
}

// ClaimTrip moves a PENDING trip to ACTIVE, recording the claiming driver
// and the authoritative start time. The repository applies the state
// guard and the writes in one indivisible update, so of N concurrent
// claims with the same code at most one succeeds; every other caller gets
// ErrInvalidCode, whether the code is unknown or merely no longer
// PENDING.
func (s *TripService) ClaimTrip(ctx context.Context, req ClaimTripRequest) (*domain.Trip, error) {
	if req.Code == "" {
		return nil, ErrInvalidCode
	}

	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	if s.throttle != nil {
		allowed, err := s.throttle.AllowClaim(ctx, req.Code, claimThrottleWindow)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	startedAt := time.Now().Truncate(time.Second)

	trip, err := s.tripRepo.Claim(ctx, req.Code, req.DriverID, startedAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.ResetClaim(ctx, req.Code)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateTrip(ctx, req.Code)
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyTripClaimed(ctx, trip)
	}

	tripsClaimed.Inc()
	return trip, nil
}

// CompleteTripRequest contains the parameters for completing a trip.
type CompleteTripRequest struct {
	Code string
}

// CompleteTrip moves an ACTIVE trip to COMPLETED. The end time is
// captured here, settlement is computed from the persisted start time
// and that end time, and state, end time and amounts are persisted in
// one conditional update. The transition is terminal: a retry against
// the completed trip fails with ErrTripNotActive and never re-bills.
func (s *TripService) CompleteTrip(ctx context.Context, req CompleteTripRequest) (*domain.Trip, error) {
	if req.Code == "" {
		return nil, ErrTripNotActive
	}

	current, err := s.tripRepo.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotActive
		}
		return nil, err
	}

	if current.State != domain.TripStateActive {
		return nil, ErrTripNotActive
	}

	endedAt := time.Now().Truncate(time.Second)

	settlement, err := Settle(current.ServiceTier, current.StartedAt, endedAt)
	if err != nil {
		return nil, err
	}

	// The ACTIVE guard inside Complete decides the race if another caller
	// finished the trip between the read above and this update.
	trip, err := s.tripRepo.Complete(ctx, req.Code, endedAt, settlement.BilledAmount, settlement.NightSurcharge)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotActive
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateTrip(ctx, req.Code)
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyTripCompleted(ctx, trip)
	}

	tripsCompleted.Inc()
	return trip, nil
}

// ActiveTrip retrieves the driver's current ACTIVE trip for session
// recovery after a client reattaches. Pure read: the observational timer
// is rebuilt from the persisted StartedAt, which is never re-touched.
// Returns nil without error when the driver has no active trip.
func (s *TripService) ActiveTrip(ctx context.Context, driverID string) (*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.tripRepo.GetActiveByDriverID(ctx, driverID)
}

// GetTrip retrieves a trip by code for report/detail display, through
// the read cache when one is configured.
func (s *TripService) GetTrip(ctx context.Context, code string) (*domain.Trip, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	if s.cache != nil {
		if cached, err := s.cache.GetTrip(ctx, code); err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.tripRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetTrip(ctx, trip)
	}

	return trip, nil
}

// GetAllTrips retrieves trips ordered by issuance recency.
func (s *TripService) GetAllTrips(ctx context.Context) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx)
}

// PreviewSettlement computes what a trip would bill without touching
// stored state. Pure and idempotent.
func (s *TripService) PreviewSettlement(tier domain.ServiceTier, startedAt, endedAt time.Time) (Settlement, error) {
	return Settle(tier, startedAt, endedAt)
}

// codeAlphabet omits characters that read ambiguously when spoken or
// written down (0/O, 1/I/L).
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const codeLength = 6

// generateCode produces a short one-time trip code.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
