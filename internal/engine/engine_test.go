package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-sizing/internal/config"
	"station-sizing/internal/model"
)

func newTestEngine() *Engine {
	return New(config.Default(), zerolog.Nop())
}

func testTariff() []model.TouPeriod {
	return []model.TouPeriod{
		{PeriodType: model.PeriodPeak, Price: decimal.RequireFromString("1.2"),
			TimeRanges: []model.ClockRange{{Start: "18:00", End: "20:15"}}},
		{PeriodType: model.PeriodValley, Price: decimal.RequireFromString("0.3"),
			TimeRanges: []model.ClockRange{{Start: "20:15", End: "18:00"}}},
	}
}

func testFleet() model.FleetConfig {
	return model.FleetConfig{
		VehicleCount:      1,
		BatteryKwh:        decimal.NewFromInt(100),
		EnableTimeControl: true,
		Piles:             model.PileCounts{Fast: 1},
		V2gPiles:          model.PileCounts{Fast: 1},
	}
}

func testSchedule() model.WeeklySchedule {
	day := model.DaySchedule{
		Operating: true,
		ChargeableRanges: []model.TimeRange{
			{Start: "08:00", End: "10:00", MinSoc: 50},
			{Start: "18:00", End: "20:00", MinSoc: 90},
		},
	}
	return model.WeeklySchedule{day}
}

func TestComputeLoadCurveMissingTariff(t *testing.T) {
	e := newTestEngine()
	_, err := e.ComputeLoadCurve(testFleet(), testSchedule(), nil)
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestComputeLoadCurveMalformedSchedule(t *testing.T) {
	e := newTestEngine()
	weekly := model.WeeklySchedule{{
		Operating:        true,
		ChargeableRanges: []model.TimeRange{{Start: "8am", End: "10:00"}},
	}}
	_, err := e.ComputeLoadCurve(testFleet(), weekly, testTariff())
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestComputeLoadCurveInvalidFleet(t *testing.T) {
	e := newTestEngine()
	fleet := testFleet()
	fleet.V2gPiles.Fast = 2 // exceeds the single fast pile
	_, err := e.ComputeLoadCurve(fleet, testSchedule(), testTariff())
	require.Error(t, err)
	assert.True(t, IsInputError(err))
}

func TestComputeLoadCurveV2G(t *testing.T) {
	e := newTestEngine()
	result, err := e.ComputeLoadCurve(testFleet(), testSchedule(), testTariff())
	require.NoError(t, err)

	assert.True(t, result.V2gEnabled)
	require.Len(t, result.DailyCurves, 1)
	require.Len(t, result.Envelope, 96)
	// Pile-rated discharge capability: 120 x 0.85.
	assert.True(t, result.PeakDischargePowerKw.Equal(decimal.NewFromInt(102)),
		"peak discharge %s", result.PeakDischargePowerKw)
	assert.True(t, result.DailyDischargeEnergyKwh.Equal(decimal.NewFromInt(40)),
		"discharge energy %s", result.DailyDischargeEnergyKwh)
	assert.NotEmpty(t, result.Steps)
}

func TestComputeSizingEndToEnd(t *testing.T) {
	e := newTestEngine()
	fleet := model.FleetConfig{
		VehicleCount:      8,
		BatteryKwh:        decimal.NewFromInt(60),
		EnableTimeControl: false,
		Piles:             model.PileCounts{Fast: 2, Slow: 6, UltraFast: 1},
	}
	in := SizingInputs{
		Station: model.StationConfig{
			PvPeakPowerKw: decimal.NewFromInt(100),
			Country:       "CN",
		},
		Fleet: fleet,
		Tous:  testTariff(),
	}
	result, err := e.ComputeSizing(in, SizingRequest{
		ChargeMode:         "one",
		AnnualDecayPercent: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	// Peak = top-8 piles = 625 kW; ESS max = 500; rated = 500 - 100 PV.
	assert.True(t, result.LoadPeakPowerKw.Equal(decimal.NewFromInt(625)), "peak %s", result.LoadPeakPowerKw)
	assert.True(t, result.Ess.CalculatedPowerKw.Equal(decimal.NewFromInt(400)),
		"calculated power %s", result.Ess.CalculatedPowerKw)
	assert.True(t, result.Ess.CalculatedCapacityKwh.Equal(decimal.NewFromInt(800)),
		"calculated capacity %s", result.Ess.CalculatedCapacityKwh)

	// Standard module rounding covers the requirement.
	assert.GreaterOrEqual(t, result.Ess.Units, 1)
	assert.True(t, result.Ess.RatedPowerKw.GreaterThanOrEqual(result.Ess.CalculatedPowerKw))
	assert.True(t, result.Ess.CapacityKwh.GreaterThanOrEqual(result.Ess.CalculatedCapacityKwh))

	// Auto-selected transformer: smallest standard >= 625.
	assert.True(t, result.TransformerAutoCalculated)
	assert.True(t, result.TransformerCapacityKva.Equal(decimal.NewFromInt(630)),
		"transformer %s", result.TransformerCapacityKva)
	assert.Empty(t, result.Warning)

	require.Len(t, result.YearlyEconomics, 20)
	prev := decimal.Zero
	for _, y := range result.YearlyEconomics {
		assert.True(t, y.CumulativeProfit.Sub(prev).Equal(y.NetProfit), "year %d", y.Year)
		prev = y.CumulativeProfit
	}
}

func TestComputeSizingUserTransformerAndWarning(t *testing.T) {
	e := newTestEngine()
	in := SizingInputs{
		Station: model.StationConfig{
			PvPeakPowerKw:  decimal.Zero,
			TransformerKva: decimal.NewFromInt(100),
			Country:        "CN",
		},
		Fleet: model.FleetConfig{
			VehicleCount:      8,
			BatteryKwh:        decimal.NewFromInt(60),
			EnableTimeControl: false,
			Piles:             model.PileCounts{Fast: 2, Slow: 6, UltraFast: 1},
		},
		Tous: testTariff(),
	}
	result, err := e.ComputeSizing(in, SizingRequest{ChargeMode: "one"})
	require.NoError(t, err)

	assert.False(t, result.TransformerAutoCalculated)
	assert.True(t, result.TransformerCapacityKva.Equal(decimal.NewFromInt(100)))
	// 500 kW rated against a 100 kVA transformer overflows, as a warning
	// only.
	assert.NotEmpty(t, result.Warning)
}

func TestComputeV2GStandalone(t *testing.T) {
	e := newTestEngine()
	result, err := e.ComputeV2G(V2GRequest{
		Fleet:    testFleet(),
		Schedule: testSchedule(),
		Tous:     testTariff(),
	})
	require.NoError(t, err)

	assert.True(t, result.PeakDischargePowerKw.Equal(decimal.NewFromInt(102)))
	assert.True(t, result.DischargePowerRatio.Equal(decimal.RequireFromString("0.85")))
	// One operating day losing 36 per day.
	assert.True(t, result.WeeklyArbitrageRevenue.Equal(decimal.NewFromInt(-36)),
		"weekly %s", result.WeeklyArbitrageRevenue)
	assert.True(t, result.YearlyArbitrageRevenue.Equal(decimal.NewFromInt(-1872)),
		"yearly %s", result.YearlyArbitrageRevenue)
	assert.Equal(t, model.PileCounts{Fast: 1, Slow: 1, UltraFast: 1}, result.SuggestedPiles)
}

func TestComputeV2GZeroVehicles(t *testing.T) {
	e := newTestEngine()
	fleet := testFleet()
	fleet.VehicleCount = 0
	result, err := e.ComputeV2G(V2GRequest{
		Fleet:    fleet,
		Schedule: testSchedule(),
		Tous:     testTariff(),
	})
	require.NoError(t, err)
	assert.True(t, result.WeeklyArbitrageRevenue.IsZero())
	assert.True(t, result.DailyMaxChargingEnergyKwh.IsZero())
}

func TestComputeV2GDeterministic(t *testing.T) {
	e := newTestEngine()
	req := V2GRequest{
		Fleet:    testFleet(),
		Schedule: testSchedule(),
		Tous:     testTariff(),
	}
	first, err := e.ComputeV2G(req)
	require.NoError(t, err)
	second, err := e.ComputeV2G(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInputErrorTaxonomy(t *testing.T) {
	err := NewInputError("touPrices", "required")
	assert.True(t, IsInputError(err))
	assert.Equal(t, "touPrices: required", err.Error())
	assert.False(t, IsInputError(assert.AnError))
}
