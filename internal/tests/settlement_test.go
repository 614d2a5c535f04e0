package tests

import (
	"errors"
	"testing"
	"time"

	"dutytrip/internal/domain"
	"dutytrip/internal/service"
)

// ──────────────────────────────────────────────
// SETTLEMENT CALCULATOR
// ──────────────────────────────────────────────

// at builds a UTC timestamp on a fixed day so the end hour is exactly
// what each case says it is.
func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 12, hour, min, sec, 0, time.UTC)
}

func TestSettle_TariffTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		tier          domain.ServiceTier
		startedAt     time.Time
		endedAt       time.Time
		wantBilled    float64
		wantSurcharge float64
	}{
		{
			// 4-hour minimum applies to short city duties.
			name:          "city two hours ending 18:00",
			tier:          domain.ServiceTierCity,
			startedAt:     at(16, 0, 0),
			endedAt:       at(18, 0, 0),
			wantBilled:    600,
			wantSurcharge: 0,
		},
		{
			name:          "city five hours ending 23:10 gets surcharge",
			tier:          domain.ServiceTierCity,
			startedAt:     at(18, 10, 0),
			endedAt:       at(23, 10, 0),
			wantBilled:    950,
			wantSurcharge: 200,
		},
		{
			name:          "city six hours ending 21:59 just misses surcharge",
			tier:          domain.ServiceTierCity,
			startedAt:     at(15, 59, 0),
			endedAt:       at(21, 59, 0),
			wantBilled:    900,
			wantSurcharge: 0,
		},
		{
			// The boundary is inclusive: ending exactly at 22:00:00 bills
			// the surcharge.
			name:          "city ending exactly 22:00:00 gets surcharge",
			tier:          domain.ServiceTierCity,
			startedAt:     at(17, 0, 0),
			endedAt:       at(22, 0, 0),
			wantBilled:    950,
			wantSurcharge: 200,
		},
		{
			name:          "city zero duration bills the minimum",
			tier:          domain.ServiceTierCity,
			startedAt:     at(12, 0, 0),
			endedAt:       at(12, 0, 0),
			wantBilled:    600,
			wantSurcharge: 0,
		},
		{
			// 4.33 h = 4h19m48s; 4.33 x 150 = 649.5 rounds away from
			// zero to 650. Pins the rounding rule.
			name:          "city fractional hours round half away from zero",
			tier:          domain.ServiceTierCity,
			startedAt:     at(10, 0, 0),
			endedAt:       at(14, 19, 48),
			wantBilled:    650,
			wantSurcharge: 0,
		},
		{
			name:          "outstation thirteen hours bills two blocks",
			tier:          domain.ServiceTierOutstation,
			startedAt:     at(1, 0, 0),
			endedAt:       at(14, 0, 0),
			wantBilled:    3000,
			wantSurcharge: 0,
		},
		{
			name:          "outstation exactly twelve hours bills one block",
			tier:          domain.ServiceTierOutstation,
			startedAt:     at(1, 0, 0),
			endedAt:       at(13, 0, 0),
			wantBilled:    1500,
			wantSurcharge: 0,
		},
		{
			name:          "outstation zero duration bills one block",
			tier:          domain.ServiceTierOutstation,
			startedAt:     at(9, 0, 0),
			endedAt:       at(9, 0, 0),
			wantBilled:    1500,
			wantSurcharge: 0,
		},
		{
			// Outstation never attracts the night surcharge, even ending
			// deep in the surcharge window.
			name:          "outstation ending 23:30 has no surcharge",
			tier:          domain.ServiceTierOutstation,
			startedAt:     at(10, 30, 0),
			endedAt:       at(23, 30, 0),
			wantBilled:    3000,
			wantSurcharge: 0,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			settlement, err := service.Settle(tc.tier, tc.startedAt, tc.endedAt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if settlement.BilledAmount != tc.wantBilled {
				t.Errorf("billed amount: got %v, want %v", settlement.BilledAmount, tc.wantBilled)
			}
			if settlement.NightSurcharge != tc.wantSurcharge {
				t.Errorf("night surcharge: got %v, want %v", settlement.NightSurcharge, tc.wantSurcharge)
			}
		})
	}
}

func TestSettle_MissingTimestampsSettleToZero(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		startedAt time.Time
		endedAt   time.Time
	}{
		{"missing start", time.Time{}, at(18, 0, 0)},
		{"missing end", at(10, 0, 0), time.Time{}},
		{"missing both", time.Time{}, time.Time{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			settlement, err := service.Settle(domain.ServiceTierCity, tc.startedAt, tc.endedAt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if settlement.BilledAmount != 0 || settlement.NightSurcharge != 0 {
				t.Errorf("expected zero settlement, got %+v", settlement)
			}
		})
	}
}

func TestSettle_EndBeforeStartIsRejected(t *testing.T) {
	t.Parallel()

	_, err := service.Settle(domain.ServiceTierCity, at(14, 0, 0), at(13, 0, 0))
	if !errors.Is(err, service.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}

	_, err = service.Settle(domain.ServiceTierOutstation, at(14, 0, 0), at(13, 0, 0))
	if !errors.Is(err, service.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestSettle_UnknownTierIsRejected(t *testing.T) {
	t.Parallel()

	_, err := service.Settle(domain.ServiceTier("LUXURY"), at(10, 0, 0), at(14, 0, 0))
	if !errors.Is(err, service.ErrInvalidServiceTier) {
		t.Errorf("expected ErrInvalidServiceTier, got %v", err)
	}
}

func TestSettle_IsPure(t *testing.T) {
	t.Parallel()

	first, err := service.Settle(domain.ServiceTierCity, at(18, 10, 0), at(23, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.Settle(domain.ServiceTierCity, at(18, 10, 0), at(23, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("identical inputs settled differently: %+v vs %+v", first, second)
	}
}
