package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"station-sizing/internal/config"
	"station-sizing/internal/model"
)

func newTestPlanner() *Planner {
	return NewPlanner(config.Default())
}

func TestTotalChargingPowerCapsAtVehicleCount(t *testing.T) {
	p := newTestPlanner()

	// 8 vehicles across 1x350 + 2x120 + 6x7 piles: top 8 = 350+120+120+5x7.
	total := p.TotalChargingPower(model.PileCounts{Fast: 2, Slow: 6, UltraFast: 1}, 8)
	assert.True(t, total.Equal(decimal.NewFromInt(625)), "got %s", total)
}

func TestTotalChargingPowerMorePilesThanVehicles(t *testing.T) {
	p := newTestPlanner()
	total := p.TotalChargingPower(model.PileCounts{Slow: 10}, 3)
	assert.True(t, total.Equal(decimal.NewFromInt(21)), "got %s", total)
}

func TestTotalChargingPowerZeroVehicles(t *testing.T) {
	p := newTestPlanner()
	total := p.TotalChargingPower(model.PileCounts{Fast: 2}, 0)
	assert.True(t, total.IsZero(), "got %s", total)
}

func TestTotalChargingPowerFallback(t *testing.T) {
	p := newTestPlanner()
	total := p.TotalChargingPower(model.PileCounts{}, 5)
	assert.True(t, total.Equal(decimal.NewFromInt(7)), "got %s", total)
}

func TestV2gDischargePowerDerate(t *testing.T) {
	p := newTestPlanner()

	// One 120 kW fast pile at the default 0.85 derate.
	got := p.V2gDischargePower(model.PileCounts{Fast: 1}, 1, decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(102)), "got %s", got)

	// Explicit ratio overrides the default.
	got = p.V2gDischargePower(model.PileCounts{Fast: 1}, 1, decimal.RequireFromString("0.5"))
	assert.True(t, got.Equal(decimal.NewFromInt(60)), "got %s", got)
}

func TestSuggestPiles(t *testing.T) {
	p := newTestPlanner()
	suggested := p.SuggestPiles(10)
	assert.Equal(t, model.PileCounts{Fast: 3, Slow: 7, UltraFast: 1}, suggested)

	assert.Equal(t, model.PileCounts{}, p.SuggestPiles(0))
}
