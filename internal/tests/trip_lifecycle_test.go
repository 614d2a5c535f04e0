package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dutytrip/internal/domain"
	"dutytrip/internal/service"
)

// ──────────────────────────────────────────────
// TRIP LIFECYCLE
// ──────────────────────────────────────────────

func newTripService(repo *MockTripRepository) *service.TripService {
	return service.NewTripService(repo, nil, nil, nil)
}

func pendingTrip(code string, tier domain.ServiceTier) *domain.Trip {
	return &domain.Trip{
		ID:          "trip-" + code,
		Code:        code,
		ServiceTier: tier,
		State:       domain.TripStatePending,
		CreatedAt:   time.Now().Truncate(time.Second),
	}
}

func TestIssueTrip_GeneratesCodeAndStartsPending(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	svc := newTripService(repo)

	trip, err := svc.IssueTrip(context.Background(), service.IssueTripRequest{
		ServiceTier: domain.ServiceTierCity,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.State != domain.TripStatePending {
		t.Errorf("expected PENDING, got %s", trip.State)
	}
	if len(trip.Code) != 6 {
		t.Errorf("expected 6-character code, got %q", trip.Code)
	}
	if strings.ContainsAny(trip.Code, "01OIL") {
		t.Errorf("code %q contains ambiguous characters", trip.Code)
	}
	if !trip.StartedAt.IsZero() || !trip.EndedAt.IsZero() || trip.BilledAmount != 0 {
		t.Error("pending trip must have no start, end or amount")
	}
}

func TestIssueTrip_DuplicateCodeFails(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("DUTY42", domain.ServiceTierCity))
	svc := newTripService(repo)

	_, err := svc.IssueTrip(context.Background(), service.IssueTripRequest{
		Code:        "DUTY42",
		ServiceTier: domain.ServiceTierOutstation,
	})
	if !errors.Is(err, service.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestIssueTrip_UnknownTierFails(t *testing.T) {
	t.Parallel()

	svc := newTripService(NewMockTripRepository())

	_, err := svc.IssueTrip(context.Background(), service.IssueTripRequest{
		ServiceTier: domain.ServiceTier("LUXURY"),
	})
	if !errors.Is(err, service.ErrInvalidServiceTier) {
		t.Errorf("expected ErrInvalidServiceTier, got %v", err)
	}
}

func TestClaimTrip_SetsDriverAndStartTime(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("DUTY42", domain.ServiceTierCity))
	svc := newTripService(repo)

	before := time.Now()
	trip, err := svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
		Code:     "DUTY42",
		DriverID: "driver-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.State != domain.TripStateActive {
		t.Errorf("expected ACTIVE, got %s", trip.State)
	}
	if trip.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", trip.DriverID)
	}
	if trip.StartedAt.IsZero() || trip.StartedAt.After(time.Now()) || trip.StartedAt.Before(before.Add(-time.Second)) {
		t.Errorf("started at %v is not the claim instant", trip.StartedAt)
	}
}

func TestClaimTrip_UnknownCodeFailsWithGenericError(t *testing.T) {
	t.Parallel()

	svc := newTripService(NewMockTripRepository())

	_, err := svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
		Code:     "NOSUCH",
		DriverID: "driver-1",
	})
	if !errors.Is(err, service.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestClaimTrip_WrongStateFailsWithSameErrorAsUnknownCode(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	active := pendingTrip("ACTIVE1", domain.ServiceTierCity)
	active.State = domain.TripStateActive
	active.DriverID = "driver-1"
	active.StartedAt = time.Now().Add(-time.Hour)
	repo.AddTrip(active)

	completed := pendingTrip("DONE01", domain.ServiceTierCity)
	completed.State = domain.TripStateCompleted
	repo.AddTrip(completed)

	svc := newTripService(repo)

	for _, code := range []string{"ACTIVE1", "DONE01"} {
		_, err := svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
			Code:     code,
			DriverID: "driver-2",
		})
		// A claim against a non-pending code must be indistinguishable
		// from a claim against a nonexistent one.
		if !errors.Is(err, service.ErrInvalidCode) {
			t.Errorf("code %s: expected ErrInvalidCode, got %v", code, err)
		}
	}

	if got := repo.GetTrip("ACTIVE1").DriverID; got != "driver-1" {
		t.Errorf("failed claim mutated driver: %s", got)
	}
}

func TestClaimTrip_AtMostOneOfConcurrentClaimsSucceeds(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("RACE01", domain.ServiceTierCity))
	svc := newTripService(repo)

	const claimers = 32

	var wg sync.WaitGroup
	errs := make([]error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
				Code:     "RACE01",
				DriverID: "driver-" + string(rune('A'+i%26)),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, service.ErrInvalidCode):
			// losers must see the generic claim failure
		default:
			t.Errorf("claimer %d: unexpected error %v", i, err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful claim, got %d", successes)
	}
}

func TestClaimTrip_ThrottledAttemptsAreRefused(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("DUTY42", domain.ServiceTierCity))
	throttle := &MockThrottle{Deny: true}
	svc := service.NewTripService(repo, nil, throttle, nil)

	_, err := svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
		Code:     "DUTY42",
		DriverID: "driver-1",
	})
	if !errors.Is(err, service.ErrTooManyAttempts) {
		t.Errorf("expected ErrTooManyAttempts, got %v", err)
	}

	if repo.ClaimCallCount != 0 {
		t.Error("throttled claim must not reach the repository")
	}
	if got := repo.GetTrip("DUTY42").State; got != domain.TripStatePending {
		t.Errorf("throttled claim mutated state: %s", got)
	}
}

func TestCompleteTrip_SettlesAndFinalizes(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	trip := pendingTrip("OUT001", domain.ServiceTierOutstation)
	trip.State = domain.TripStateActive
	trip.DriverID = "driver-1"
	trip.StartedAt = time.Now().Add(-13 * time.Hour).Truncate(time.Second)
	repo.AddTrip(trip)
	svc := newTripService(repo)

	result, err := svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "OUT001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.State != domain.TripStateCompleted {
		t.Errorf("expected COMPLETED, got %s", result.State)
	}
	if result.EndedAt.Before(result.StartedAt) {
		t.Error("ended before started")
	}
	// 13 hours on outstation is two 12-hour blocks.
	if result.BilledAmount != 3000 {
		t.Errorf("billed amount: got %v, want 3000", result.BilledAmount)
	}
	if result.NightSurcharge != 0 {
		t.Errorf("outstation surcharge must be 0, got %v", result.NightSurcharge)
	}

	stored := repo.GetTrip("OUT001")
	if stored.State != domain.TripStateCompleted || stored.BilledAmount != 3000 {
		t.Errorf("completion not persisted: %+v", stored)
	}
}

func TestCompleteTrip_CityAmountsMatchSettlement(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	trip := pendingTrip("CITY01", domain.ServiceTierCity)
	trip.State = domain.TripStateActive
	trip.DriverID = "driver-1"
	trip.StartedAt = time.Now().Add(-5 * time.Hour).Truncate(time.Second)
	repo.AddTrip(trip)
	svc := newTripService(repo)

	result, err := svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "CITY01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The persisted amounts must be exactly what the calculator says for
	// the persisted interval.
	want, err := service.Settle(domain.ServiceTierCity, result.StartedAt, result.EndedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BilledAmount != want.BilledAmount || result.NightSurcharge != want.NightSurcharge {
		t.Errorf("got (%v, %v), want (%v, %v)",
			result.BilledAmount, result.NightSurcharge, want.BilledAmount, want.NightSurcharge)
	}
}

func TestCompleteTrip_NotActiveFails(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("PEND01", domain.ServiceTierCity))
	svc := newTripService(repo)

	// Pending trip cannot be completed.
	_, err := svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "PEND01"})
	if !errors.Is(err, service.ErrTripNotActive) {
		t.Errorf("expected ErrTripNotActive, got %v", err)
	}

	// Unknown code behaves the same.
	_, err = svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "NOSUCH"})
	if !errors.Is(err, service.ErrTripNotActive) {
		t.Errorf("expected ErrTripNotActive, got %v", err)
	}

	stored := repo.GetTrip("PEND01")
	if stored.State != domain.TripStatePending || !stored.EndedAt.IsZero() || stored.BilledAmount != 0 {
		t.Errorf("failed complete mutated trip: %+v", stored)
	}
}

func TestCompleteTrip_RetryNeverRebills(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	trip := pendingTrip("ONCE01", domain.ServiceTierOutstation)
	trip.State = domain.TripStateActive
	trip.DriverID = "driver-1"
	trip.StartedAt = time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	repo.AddTrip(trip)
	svc := newTripService(repo)

	first, err := svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "ONCE01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "ONCE01"})
	if !errors.Is(err, service.ErrTripNotActive) {
		t.Errorf("retry should fail with ErrTripNotActive, got %v", err)
	}

	stored := repo.GetTrip("ONCE01")
	if stored.BilledAmount != first.BilledAmount || !stored.EndedAt.Equal(first.EndedAt) {
		t.Errorf("retry changed the settled trip: %+v vs first %+v", stored, first)
	}
}

func TestCompleteTrip_LostRaceFailsCleanly(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	trip := pendingTrip("RACE02", domain.ServiceTierCity)
	trip.State = domain.TripStateActive
	trip.DriverID = "driver-1"
	trip.StartedAt = time.Now().Add(-time.Hour)
	repo.AddTrip(trip)
	svc := newTripService(repo)

	const completers = 8

	var wg sync.WaitGroup
	errs := make([]error, completers)

	for i := 0; i < completers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CompleteTrip(context.Background(), service.CompleteTripRequest{Code: "RACE02"})
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, service.ErrTripNotActive):
		default:
			t.Errorf("completer %d: unexpected error %v", i, err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful complete, got %d", successes)
	}
}

func TestActiveTrip_RecoversSessionWithoutMutating(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	startedAt := time.Now().Add(-90 * time.Minute).Truncate(time.Second)
	trip := pendingTrip("LIVE01", domain.ServiceTierCity)
	trip.State = domain.TripStateActive
	trip.DriverID = "driver-1"
	trip.StartedAt = startedAt
	repo.AddTrip(trip)
	svc := newTripService(repo)

	recovered, err := svc.ActiveTrip(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recovered == nil {
		t.Fatal("expected active trip")
	}
	if !recovered.StartedAt.Equal(startedAt) {
		t.Errorf("recovery must not re-touch startedAt: got %v, want %v", recovered.StartedAt, startedAt)
	}

	// No active trip is not an error.
	none, err := svc.ActiveTrip(context.Background(), "driver-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Errorf("expected no active trip, got %+v", none)
	}
}

func TestClaimTrip_InvalidatesCachedTrip(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	trip := pendingTrip("CACHED", domain.ServiceTierCity)
	repo.AddTrip(trip)
	cache := NewMockTripCache()
	_ = cache.SetTrip(context.Background(), trip)
	svc := service.NewTripService(repo, cache, nil, nil)

	if _, err := svc.ClaimTrip(context.Background(), service.ClaimTripRequest{
		Code:     "CACHED",
		DriverID: "driver-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.InvalidateCallCount == 0 {
		t.Error("claim must invalidate the cached trip")
	}

	// The next read must observe the ACTIVE state.
	got, err := svc.GetTrip(context.Background(), "CACHED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.State != domain.TripStateActive {
		t.Errorf("stale state after claim: %s", got.State)
	}
}

func TestPreviewSettlement_DoesNotTouchStore(t *testing.T) {
	t.Parallel()

	repo := NewMockTripRepository()
	repo.AddTrip(pendingTrip("DUTY42", domain.ServiceTierCity))
	svc := newTripService(repo)

	start := time.Now().Add(-2 * time.Hour)
	end := time.Now()

	if _, err := svc.PreviewSettlement(domain.ServiceTierCity, start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.ClaimCallCount != 0 || repo.CompleteCallCount != 0 {
		t.Error("preview must not touch the repository")
	}
	if got := repo.GetTrip("DUTY42").State; got != domain.TripStatePending {
		t.Errorf("preview mutated state: %s", got)
	}
}
