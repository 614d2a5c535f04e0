package domain

import "time"

// TripState represents where a duty trip is in its lifecycle.
// Transitions are forward-only: PENDING -> ACTIVE -> COMPLETED.
type TripState string

const (
	TripStatePending   TripState = "PENDING"
	TripStateActive    TripState = "ACTIVE"
	TripStateCompleted TripState = "COMPLETED"
)

// ServiceTier selects the tariff applied when a trip is settled.
type ServiceTier string

const (
	// ServiceTierCity is time-metered: hourly rate with a 4-hour minimum
	// and a possible late-night surcharge.
	ServiceTierCity ServiceTier = "CITY"

	// ServiceTierOutstation is block-metered: 12-hour blocks, any fraction
	// of a block bills the full block. Never attracts the night surcharge.
	ServiceTierOutstation ServiceTier = "OUTSTATION"
)

// ValidServiceTier reports whether tier is one of the known tariffs.
func ValidServiceTier(tier ServiceTier) bool {
	switch tier {
	case ServiceTierCity, ServiceTierOutstation:
		return true
	}
	return false
}

// Trip is one billable duty engagement, identified by a one-time code.
// The code acts as a capability token: whoever presents a valid,
// still-pending code may claim the trip.
//
// StartedAt and EndedAt are zero until the respective transition sets
// them; once set they are never mutated. BilledAmount and NightSurcharge
// are computed exactly once, at completion.
type Trip struct {
	ID             string
	Code           string
	ServiceTier    ServiceTier
	State          TripState
	DriverID       string
	StartedAt      time.Time
	EndedAt        time.Time
	BilledAmount   float64
	NightSurcharge float64
	CreatedAt      time.Time
}
