package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-sizing/internal/model"
)

func operatingDay(ranges ...model.TimeRange) model.DaySchedule {
	return model.DaySchedule{Operating: true, ChargeableRanges: ranges}
}

func TestPlanWeekTimeControlOff(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	week, err := p.PlanWeek(nil, periods, 1, decimal.NewFromInt(100), false,
		decimal.NewFromInt(7), nil)
	require.NoError(t, err)

	require.Len(t, week.DailyCurves, 7)
	assert.Equal(t, "Monday", week.DailyCurves[0].Day)
	assert.Equal(t, "Sunday", week.DailyCurves[6].Day)

	// Every day shares the same curve, so the envelope equals each day.
	for _, day := range week.DailyCurves {
		for i, pt := range day.Curve {
			assert.True(t, pt.ChargePowerKw.Equal(week.Envelope[i].ChargePowerKw),
				"%s slot %d", day.Day, i)
		}
	}
	assert.True(t, week.PeakPowerKw.Equal(decimal.NewFromInt(7)))
	assert.True(t, week.DailyMaxEnergyKwh.Equal(decimal.NewFromInt(80)))
}

func TestPlanWeekEnvelopeIsSlotwiseMax(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	weekly := model.WeeklySchedule{
		operatingDay(model.TimeRange{Start: "00:00", End: "01:00", MinSoc: 80}),
		operatingDay(model.TimeRange{Start: "12:00", End: "13:00", MinSoc: 80}),
	}

	week, err := p.PlanWeek(weekly, periods, 1, decimal.NewFromInt(10), true,
		decimal.NewFromInt(7), nil)
	require.NoError(t, err)
	require.Len(t, week.DailyCurves, 2)

	monday := week.DailyCurves[0].Curve
	tuesday := week.DailyCurves[1].Curve
	for i := range week.Envelope {
		expect := monday[i].ChargePowerKw
		if tuesday[i].ChargePowerKw.GreaterThan(expect) {
			expect = tuesday[i].ChargePowerKw
		}
		assert.True(t, week.Envelope[i].ChargePowerKw.Equal(expect), "slot %d", i)
	}
}

func TestPlanWeekSkipsNonOperatingDays(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	weekly := model.WeeklySchedule{
		{Operating: false},
		operatingDay(model.TimeRange{Start: "10:00", End: "11:00", MinSoc: 60}),
	}
	week, err := p.PlanWeek(weekly, periods, 1, decimal.NewFromInt(10), true,
		decimal.NewFromInt(7), nil)
	require.NoError(t, err)
	require.Len(t, week.DailyCurves, 1)
	assert.Equal(t, "Tuesday", week.DailyCurves[0].Day)
}

func TestPlanWeekEmptyScheduleIsZero(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	week, err := p.PlanWeek(nil, periods, 5, decimal.NewFromInt(100), true,
		decimal.NewFromInt(120), nil)
	require.NoError(t, err)
	assert.Empty(t, week.DailyCurves)
	assert.True(t, week.PeakPowerKw.IsZero())
	require.Len(t, week.Envelope, 96)
	for _, pt := range week.Envelope {
		assert.True(t, pt.ChargePowerKw.IsZero())
	}
}

func TestPlanWeekZeroVehicles(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	week, err := p.PlanWeek(nil, periods, 0, decimal.NewFromInt(100), false,
		decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, week.PeakPowerKw.IsZero())
	assert.True(t, week.DailyMaxEnergyKwh.IsZero())
}

func TestPlanWeekRejectsMalformedClock(t *testing.T) {
	p := newTestPlanner()
	periods := flatTariff(t, "0.5")

	weekly := model.WeeklySchedule{
		operatingDay(model.TimeRange{Start: "9am", End: "10:00", MinSoc: 80}),
	}
	_, err := p.PlanWeek(weekly, periods, 1, decimal.NewFromInt(10), true,
		decimal.NewFromInt(7), nil)
	assert.Error(t, err)
}

func TestPlanWeekV2GWeeklyAggregates(t *testing.T) {
	p := newTestPlanner()
	periods := arbitrageTariff(t)

	day := operatingDay(
		model.TimeRange{Start: "08:00", End: "10:00", MinSoc: 50},
		model.TimeRange{Start: "18:00", End: "20:00", MinSoc: 90},
	)
	weekly := model.WeeklySchedule{day, day}

	week, err := p.PlanWeekV2G(weekly, periods, 1, decimal.NewFromInt(100), true,
		decimal.Zero, decimal.NewFromInt(120), decimal.NewFromInt(102), 1, nil)
	require.NoError(t, err)

	require.Len(t, week.DailyCurves, 2)
	// Each day loses 36, and a loss never becomes the "max" daily arbitrage.
	assert.True(t, week.WeeklyArbitrage.Equal(decimal.NewFromInt(-72)), "weekly %s", week.WeeklyArbitrage)
	assert.True(t, week.MaxDailyArbitrage.IsZero())

	// Envelope discharge is the most negative value across days.
	assert.True(t, week.Envelope[32].DischargePowerKw.Equal(decimal.NewFromInt(-102)))
}

func TestPlanWeekV2GTimeControlOff(t *testing.T) {
	p := newTestPlanner()
	periods := arbitrageTariff(t)

	week, err := p.PlanWeekV2G(nil, periods, 1, decimal.NewFromInt(100), false,
		decimal.Zero, decimal.NewFromInt(120), decimal.NewFromInt(102), 1, nil)
	require.NoError(t, err)

	require.Len(t, week.DailyCurves, 7)
	// A single synthetic full-day range cannot arbitrage: arrival equals the
	// target, so the week is flat.
	assert.True(t, week.WeeklyArbitrage.IsZero())
	assert.True(t, week.MaxDailyArbitrage.IsZero())
}

func TestMaxDailyDischargeEnergy(t *testing.T) {
	p := newTestPlanner()
	periods := arbitrageTariff(t)

	day := operatingDay(
		model.TimeRange{Start: "08:00", End: "10:00", MinSoc: 50},
		model.TimeRange{Start: "18:00", End: "20:00", MinSoc: 90},
	)
	week, err := p.PlanWeekV2G(model.WeeklySchedule{day}, periods, 1, decimal.NewFromInt(100), true,
		decimal.Zero, decimal.NewFromInt(120), decimal.NewFromInt(102), 1, nil)
	require.NoError(t, err)

	got := p.MaxDailyDischargeEnergy(week.DailyCurves)
	assert.True(t, got.Equal(decimal.NewFromInt(40)), "got %s", got)
}
