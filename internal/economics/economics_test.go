package economics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-sizing/internal/config"
	"station-sizing/internal/model"
)

func spreadTariff() []model.TouPeriod {
	return []model.TouPeriod{
		{PeriodType: model.PeriodPeak, Price: decimal.RequireFromString("1.2")},
		{PeriodType: model.PeriodValley, Price: decimal.RequireFromString("0.3")},
	}
}

func TestPriceSpread(t *testing.T) {
	assert.True(t, PriceSpread(spreadTariff()).Equal(decimal.RequireFromString("0.9")))
	assert.True(t, PriceSpread(nil).Equal(decimal.NewFromInt(1)))
}

// 430 kWh at a 0.9 spread, one cycle per day, 2% decay:
// year 1 arbitrage = 430 x 0.9 x 365 = 141255, cost = 645000 x 0.02.
func TestProjectFirstYear(t *testing.T) {
	cfg := config.Default()
	years := Project(Inputs{
		CapacityKwh:        decimal.NewFromInt(430),
		Tous:               spreadTariff(),
		AnnualDecayPercent: decimal.NewFromInt(2),
		EnablePeakShaving:  false,
		ChargeMode:         "one",
	}, cfg)

	require.Len(t, years, 20)
	y1 := years[0]
	assert.Equal(t, 1, y1.Year)
	assert.True(t, y1.ArbitrageRevenue.Equal(decimal.NewFromInt(141255)), "arbitrage %s", y1.ArbitrageRevenue)
	assert.True(t, y1.PeakShavingRevenue.IsZero())
	assert.True(t, y1.OperatingCost.Equal(decimal.NewFromInt(12900)), "cost %s", y1.OperatingCost)
	assert.True(t, y1.NetProfit.Equal(decimal.NewFromInt(128355)), "net %s", y1.NetProfit)
	assert.True(t, y1.CumulativeProfit.Equal(y1.NetProfit))
}

func TestProjectDecayAndInflation(t *testing.T) {
	cfg := config.Default()
	years := Project(Inputs{
		CapacityKwh:        decimal.NewFromInt(430),
		Tous:               spreadTariff(),
		AnnualDecayPercent: decimal.NewFromInt(2),
		ChargeMode:         "one",
	}, cfg)

	// Year 2: capacity decayed once, cost inflated once.
	y2 := years[1]
	assert.True(t, y2.ArbitrageRevenue.Equal(decimal.RequireFromString("138429.90")), "arbitrage %s", y2.ArbitrageRevenue)
	assert.True(t, y2.OperatingCost.Equal(decimal.RequireFromString("13158")), "cost %s", y2.OperatingCost)

	// Revenue shrinks monotonically under decay, cost grows under inflation.
	for i := 1; i < len(years); i++ {
		assert.True(t, years[i].ArbitrageRevenue.LessThan(years[i-1].ArbitrageRevenue), "year %d", i+1)
		assert.True(t, years[i].OperatingCost.GreaterThan(years[i-1].OperatingCost), "year %d", i+1)
	}
}

func TestProjectCumulativeIsExactRunningSum(t *testing.T) {
	cfg := config.Default()
	years := Project(Inputs{
		CapacityKwh:        decimal.NewFromInt(430),
		Tous:               spreadTariff(),
		AnnualDecayPercent: decimal.NewFromInt(3),
		EnablePeakShaving:  true,
		PeakShavingSubsidy: decimal.RequireFromString("0.2"),
		ChargeMode:         "two",
	}, cfg)

	prev := decimal.Zero
	for _, y := range years {
		assert.True(t, y.CumulativeProfit.Sub(prev).Equal(y.NetProfit), "year %d", y.Year)
		prev = y.CumulativeProfit
	}
}

func TestProjectTwoCyclesDoubleArbitrage(t *testing.T) {
	cfg := config.Default()
	one := Project(Inputs{
		CapacityKwh: decimal.NewFromInt(100),
		Tous:        spreadTariff(),
		ChargeMode:  "one",
	}, cfg)
	two := Project(Inputs{
		CapacityKwh: decimal.NewFromInt(100),
		Tous:        spreadTariff(),
		ChargeMode:  "two",
	}, cfg)
	assert.True(t, two[0].ArbitrageRevenue.Equal(one[0].ArbitrageRevenue.Mul(decimal.NewFromInt(2))))
}

func TestProjectPeakShavingRevenue(t *testing.T) {
	cfg := config.Default()
	years := Project(Inputs{
		CapacityKwh:        decimal.NewFromInt(100),
		Tous:               spreadTariff(),
		EnablePeakShaving:  true,
		PeakShavingSubsidy: decimal.RequireFromString("0.5"),
		ChargeMode:         "one",
	}, cfg)
	// 100 kWh x 0.5 x 365 with no decay in year 1.
	assert.True(t, years[0].PeakShavingRevenue.Equal(decimal.NewFromInt(18250)),
		"got %s", years[0].PeakShavingRevenue)
}
