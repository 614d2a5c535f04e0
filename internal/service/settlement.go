package service

import (
	"math"
	"time"

	"dutytrip/internal/domain"
)

// Tariff constants, in whole currency units.
const (
	cityHourlyRate   = 150.0
	cityMinimumHours = 4.0
	nightSurcharge   = 200.0
	nightHour        = 22 // surcharge applies when the end hour is >= 22 local time

	outstationBlockHours = 12.0
	outstationBlockRate  = 1500.0
)

// Settlement is the billing outcome for one trip.
type Settlement struct {
	BilledAmount   float64
	NightSurcharge float64
}

// Settle converts a trip's recorded interval and tier into a billed
// amount. It is pure: safe to call speculatively for previews, and called
// exactly once authoritatively during the complete transition.
//
// A missing timestamp settles to zero without error so that previews on
// provisional values cannot fail. A negative interval is rejected with
// ErrEndBeforeStart.
//
// CITY bills max(4, elapsed) fractional hours at the hourly rate, plus a
// fixed surcharge iff the end instant's local wall-clock hour is >= 22.
// The total is rounded half-away-from-zero to the nearest whole unit.
//
// OUTSTATION bills ceil(elapsed / 12h) blocks, minimum one block, at the
// block rate. It never attracts the night surcharge regardless of end
// time; the surcharge rule reads only the CITY end-of-shift clock hour,
// never the elapsed duration.
func Settle(tier domain.ServiceTier, startedAt, endedAt time.Time) (Settlement, error) {
	if startedAt.IsZero() || endedAt.IsZero() {
		return Settlement{}, nil
	}

	if endedAt.Before(startedAt) {
		return Settlement{}, ErrEndBeforeStart
	}

	elapsedHours := endedAt.Sub(startedAt).Hours()

	switch tier {
	case domain.ServiceTierCity:
		billableHours := math.Max(cityMinimumHours, elapsedHours)
		baseFare := billableHours * cityHourlyRate

		var surcharge float64
		if endedAt.Hour() >= nightHour {
			surcharge = nightSurcharge
		}

		return Settlement{
			BilledAmount:   math.Round(baseFare + surcharge),
			NightSurcharge: surcharge,
		}, nil

	case domain.ServiceTierOutstation:
		blocks := math.Ceil(elapsedHours / outstationBlockHours)
		if blocks < 1 {
			blocks = 1
		}

		return Settlement{
			BilledAmount:   blocks * outstationBlockRate,
			NightSurcharge: 0,
		}, nil

	default:
		return Settlement{}, ErrInvalidServiceTier
	}
}
