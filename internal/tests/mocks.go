package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dutytrip/internal/domain"
	"dutytrip/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository. Its
// Claim and Complete apply the state guard and the writes under one
// mutex, mirroring the conditional-update semantics of the real store so
// concurrency tests against it are meaningful.
type MockTripRepository struct {
	mu    sync.Mutex
	trips map[string]*domain.Trip // keyed by code

	// Counters for verification
	ClaimCallCount    int32
	CompleteCallCount int32

	// Error injection
	InsertError   error
	ClaimError    error
	CompleteError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip seeds a trip into the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.Code] = trip
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(code string) *domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip, ok := m.trips[code]; ok {
		copy := *trip
		return &copy
	}
	return nil
}

func (m *MockTripRepository) InsertPending(ctx context.Context, trip *domain.Trip) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trips[trip.Code]; exists {
		return repository.ErrDuplicateCode
	}
	copy := *trip
	m.trips[trip.Code] = &copy
	return nil
}

func (m *MockTripRepository) Claim(ctx context.Context, code, driverID string, startedAt time.Time) (*domain.Trip, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return nil, m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := m.trips[code]
	if !ok || trip.State != domain.TripStatePending {
		return nil, repository.ErrNotFound
	}

	trip.State = domain.TripStateActive
	trip.DriverID = driverID
	trip.StartedAt = startedAt

	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) Complete(ctx context.Context, code string, endedAt time.Time, billedAmount, nightSurcharge float64) (*domain.Trip, error) {
	atomic.AddInt32(&m.CompleteCallCount, 1)
	if m.CompleteError != nil {
		return nil, m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := m.trips[code]
	if !ok || trip.State != domain.TripStateActive {
		return nil, repository.ErrNotFound
	}

	trip.State = domain.TripStateCompleted
	trip.EndedAt = endedAt
	trip.BilledAmount = billedAmount
	trip.NightSurcharge = nightSurcharge

	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetByCode(ctx context.Context, code string) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, trip := range m.trips {
		if trip.DriverID == driverID && trip.State == domain.TripStateActive {
			copy := *trip
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, trip := range m.trips {
		copy := *trip
		result = append(result, &copy)
	}
	return result, nil
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateCallCount int32
	CreateError     error
}

// NewMockAccountRepository creates a new mock account repository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Name == account.Name {
			return repository.ErrDuplicateName
		}
	}
	copy := *account
	m.accounts[account.ID] = &copy
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *account
	return &copy, nil
}

func (m *MockAccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.Name == name {
			copy := *account
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copy := *account
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CLAIM THROTTLE
// ──────────────────────────────────────────────

// MockThrottle is a mock implementation of redis.ThrottleInterface.
type MockThrottle struct {
	AllowCallCount int32
	ResetCallCount int32

	// Deny makes every AllowClaim report the limit as exceeded.
	Deny bool

	AllowError error
}

func (m *MockThrottle) AllowClaim(ctx context.Context, code string, window time.Duration) (bool, error) {
	atomic.AddInt32(&m.AllowCallCount, 1)
	if m.AllowError != nil {
		return false, m.AllowError
	}
	return !m.Deny, nil
}

func (m *MockThrottle) ResetClaim(ctx context.Context, code string) error {
	atomic.AddInt32(&m.ResetCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRIP CACHE
// ──────────────────────────────────────────────

// MockTripCache is a mock implementation of redis.TripCacheInterface.
type MockTripCache struct {
	mu    sync.Mutex
	trips map[string]*domain.Trip

	InvalidateCallCount int32
}

// NewMockTripCache creates a new mock trip cache.
func NewMockTripCache() *MockTripCache {
	return &MockTripCache{trips: make(map[string]*domain.Trip)}
}

func (m *MockTripCache) GetTrip(ctx context.Context, code string) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip, ok := m.trips[code]; ok {
		copy := *trip
		return &copy, nil
	}
	return nil, nil
}

func (m *MockTripCache) SetTrip(ctx context.Context, trip *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.Code] = &copy
	return nil
}

func (m *MockTripCache) InvalidateTrip(ctx context.Context, code string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, code)
	return nil
}
