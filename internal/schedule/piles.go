// Package schedule turns a fleet configuration, a weekly charging schedule
// and a TOU tariff into per-day load curves, using a deterministic greedy
// dispatch over the 15-minute slot grid.
package schedule

import (
	"sort"

	"github.com/shopspring/decimal"

	"station-sizing/internal/config"
	"station-sizing/internal/model"
)

// Planner holds the tunable constants shared by every scheduling step.
type Planner struct {
	Cfg *config.Params
}

func NewPlanner(cfg *config.Params) *Planner {
	return &Planner{Cfg: cfg}
}

// TotalChargingPower returns the maximum simultaneous charging power of a
// pile set, capped by the number of vehicles.
//
// A station with more piles than vehicles can only energize vehicleCount
// piles at once; assigning vehicles to the highest-power piles first yields
// the peak the transformer must actually serve. With no piles configured at
// all, the default single-charger power is returned.
func (p *Planner) TotalChargingPower(piles model.PileCounts, vehicleCount int) decimal.Decimal {
	powers := make([]decimal.Decimal, 0, piles.Total())
	for i := 0; i < piles.UltraFast; i++ {
		powers = append(powers, p.Cfg.UltraFastChargerPowerKw)
	}
	for i := 0; i < piles.Fast; i++ {
		powers = append(powers, p.Cfg.FastChargerPowerKw)
	}
	for i := 0; i < piles.Slow; i++ {
		powers = append(powers, p.Cfg.SlowChargerPowerKw)
	}
	if len(powers) == 0 {
		return p.Cfg.DefaultChargingPowerKw
	}
	sort.SliceStable(powers, func(i, j int) bool {
		return powers[i].GreaterThan(powers[j])
	})
	active := vehicleCount
	if active > len(powers) {
		active = len(powers)
	}
	if active < 0 {
		active = 0
	}
	total := decimal.Zero
	for i := 0; i < active; i++ {
		total = total.Add(powers[i])
	}
	return total
}

// V2gDischargePower is the pile-rated discharge capability of the V2G pile
// subset: the same vehicle-capped selection as charging, derated by the
// configured discharge ratio.
func (p *Planner) V2gDischargePower(v2gPiles model.PileCounts, vehicleCount int, derate decimal.Decimal) decimal.Decimal {
	if derate.IsZero() {
		derate = p.Cfg.V2gDischargeDerate
	}
	return p.TotalChargingPower(v2gPiles, vehicleCount).Mul(derate).Round(2)
}

// SuggestPiles proposes a pile mix for a vehicle count from the configured
// per-class ratios, rounding each class up.
func (p *Planner) SuggestPiles(vehicleCount int) model.PileCounts {
	v := decimal.NewFromInt(int64(vehicleCount))
	return model.PileCounts{
		Fast:      int(v.Mul(p.Cfg.PileSuggestionRatios[0]).Ceil().IntPart()),
		Slow:      int(v.Mul(p.Cfg.PileSuggestionRatios[1]).Ceil().IntPart()),
		UltraFast: int(v.Mul(p.Cfg.PileSuggestionRatios[2]).Ceil().IntPart()),
	}
}
