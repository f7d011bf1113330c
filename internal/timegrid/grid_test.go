package timegrid

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-sizing/internal/model"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"08:00": 480,
		"23:45": 1425,
		"24:00": 1440,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "8", "8:0:0", "ab:cd", "25:00", "12:60", "-1:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, "expected %q to be rejected", in)
	}
}

func TestTimeToSlotAndBack(t *testing.T) {
	slot, err := TimeToSlot("10:00", 15)
	require.NoError(t, err)
	assert.Equal(t, 40, slot)

	assert.Equal(t, "00:00", SlotToTime(0, 15))
	assert.Equal(t, "00:15", SlotToTime(1, 15))
	assert.Equal(t, "23:45", SlotToTime(95, 15))
}

func TestAddSlotsInRange(t *testing.T) {
	set := make(map[int]struct{})
	AddSlotsInRange(set, 4, 6, 96)
	assert.Len(t, set, 3)

	// Wraps past midnight.
	set = make(map[int]struct{})
	AddSlotsInRange(set, 94, 1, 96)
	assert.Len(t, set, 4)
	for _, i := range []int{94, 95, 0, 1} {
		_, ok := set[i]
		assert.True(t, ok, "slot %d", i)
	}
}

func touPeriods(t *testing.T) []PricePeriod {
	t.Helper()
	periods, err := CompilePeriods([]model.TouPeriod{
		{PeriodType: model.PeriodPeak, Price: decimal.RequireFromString("1.2"),
			TimeRanges: []model.ClockRange{{Start: "18:00", End: "20:00"}}},
		{PeriodType: model.PeriodValley, Price: decimal.RequireFromString("0.3"),
			TimeRanges: []model.ClockRange{{Start: "22:00", End: "06:00"}}},
	})
	require.NoError(t, err)
	return periods
}

func TestPriceForMinute(t *testing.T) {
	periods := touPeriods(t)

	assert.True(t, PriceForMinute(18*60, periods).Equal(decimal.RequireFromString("1.2")))
	// End is exclusive.
	mean := decimal.RequireFromString("0.75")
	assert.True(t, PriceForMinute(20*60, periods).Equal(mean))
	// Wrapping valley range matches both sides of midnight.
	assert.True(t, PriceForMinute(23*60, periods).Equal(decimal.RequireFromString("0.3")))
	assert.True(t, PriceForMinute(3*60, periods).Equal(decimal.RequireFromString("0.3")))
	// Uncovered slots fall back to the mean of all period prices.
	assert.True(t, PriceForMinute(12*60, periods).Equal(mean))
}

func TestPriceFirstMatchWins(t *testing.T) {
	periods, err := CompilePeriods([]model.TouPeriod{
		{PeriodType: model.PeriodHigh, Price: decimal.NewFromInt(2),
			TimeRanges: []model.ClockRange{{Start: "00:00", End: "24:00"}}},
		{PeriodType: model.PeriodValley, Price: decimal.NewFromInt(1),
			TimeRanges: []model.ClockRange{{Start: "00:00", End: "24:00"}}},
	})
	require.NoError(t, err)
	assert.True(t, PriceForMinute(600, periods).Equal(decimal.NewFromInt(2)))
}

func TestPriceEmptyTariffSentinel(t *testing.T) {
	assert.True(t, PriceForMinute(0, nil).Equal(decimal.RequireFromString("0.5")))
}

func TestCompilePeriodsRejectsMalformedTime(t *testing.T) {
	_, err := CompilePeriods([]model.TouPeriod{
		{PeriodType: model.PeriodPeak, Price: decimal.NewFromInt(1),
			TimeRanges: []model.ClockRange{{Start: "8am", End: "10:00"}}},
	})
	assert.Error(t, err)
}

func TestZeroCurve(t *testing.T) {
	curve := ZeroCurve(15)
	require.Len(t, curve, 96)
	assert.Equal(t, "00:00", curve[0].TimeSlot)
	assert.Equal(t, "23:45", curve[95].TimeSlot)
	for _, p := range curve {
		assert.True(t, p.ChargePowerKw.IsZero())
		assert.True(t, p.DischargePowerKw.IsZero())
	}
}
