package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gearrental/service/pricing"
)

func TestTierSchedule(t *testing.T) {
	// base 1000: the canonical tier table
	cases := []struct {
		name  string
		hours float64
		total float64
	}{
		{"4h short rate", 4, 700},
		{"1 day full rate", 24, 1000},
		{"25h bills 2 days", 25, 2000},
		{"2 days full rate", 48, 2000},
		{"3 days 10% off", 72, 2700},
		{"4 days 10% off", 96, 3600},
		{"5 days 30% off", 120, 3500},
		{"7 days 30% off", 168, 4900},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := pricing.ForDuration(1000, tc.hours)
			require.Equal(t, tc.total, q.Total)
			require.Equal(t, tc.total, pricing.Cost(1000, tc.hours))
		})
	}
}

func TestShortRentalIsFlat(t *testing.T) {
	// anything at or under 4 hours is one flat charge, not per-hour
	require.Equal(t, pricing.Cost(1000, 1), pricing.Cost(1000, 4))

	q := pricing.ForDuration(1000, 3)
	require.Equal(t, int64(1), q.Days)
	require.Equal(t, 0.7, q.Rate)
	require.Equal(t, 1000.0, q.Subtotal)
	require.Equal(t, 300.0, q.Discount)
}

func TestZeroDurationNeverNegative(t *testing.T) {
	for _, h := range []float64{0, -1, -24} {
		c := pricing.Cost(1000, h)
		require.GreaterOrEqual(t, c, 0.0)
		require.False(t, c != c, "NaN")
		// charged at the short-rental minimum
		require.Equal(t, 700.0, c)
	}
}

func TestPerDayRateMonotonic(t *testing.T) {
	// the effective per-day rate never increases as the rental gets longer
	prev := pricing.Cost(1000, 24) / 1
	for days := int64(2); days <= 10; days++ {
		perDay := pricing.Cost(1000, float64(days*24)) / float64(days)
		require.LessOrEqual(t, perDay, prev, "days=%d", days)
		prev = perDay
	}
}

func TestForRangeDerivesHours(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	q := pricing.ForRange(1000, start, end)
	require.Equal(t, int64(3), q.Days)
	require.Equal(t, 2700.0, q.Total)
	require.Equal(t, 2700.0, pricing.CostForRange(1000, start, end))
}

func TestTotalRounding(t *testing.T) {
	// 333.33 * 3 days * 0.9 = 899.991 -> 900
	q := pricing.ForDuration(333.33, 72)
	require.Equal(t, 900.0, q.Total)
	// Cost keeps decimals for grand-total summation
	require.InDelta(t, 899.991, pricing.Cost(333.33, 72), 1e-9)
}
