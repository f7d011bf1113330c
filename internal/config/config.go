// Package config carries every tunable constant of the sizing engine.
// Defaults match the CN deployment; a YAML file can overlay any subset.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EssModel is one standard storage module: rated power and capacity.
type EssModel struct {
	PowerKw     int `yaml:"power_kw"`
	CapacityKwh int `yaml:"capacity_kwh"`
}

// Params is the resolved runtime configuration. All ratios and prices are
// exact decimals; construct via Default or Load, not zero values.
type Params struct {
	EmpiricalCoefficient      decimal.Decimal
	DefaultChargingPowerKw    decimal.Decimal
	FastChargerPowerKw        decimal.Decimal
	SlowChargerPowerKw        decimal.Decimal
	UltraFastChargerPowerKw   decimal.Decimal
	TimeSlotIntervalMinutes   int
	EssUnitCostYuanPerKwh     decimal.Decimal
	EssAnnualMaintenanceRatio decimal.Decimal
	V2gDischargeDerate        decimal.Decimal

	// PileSuggestionRatios are the per-vehicle suggestion factors for
	// fast, slow and ultra-fast piles, in that order.
	PileSuggestionRatios [3]decimal.Decimal

	// StandardTransformerSizes lists the commercial transformer sizes (kVA,
	// ascending) per country code.
	StandardTransformerSizes map[string][]int

	// StandardEssModels lists the commercial storage modules per country.
	StandardEssModels map[string][]EssModel
}

// Default returns the built-in parameter set.
func Default() *Params {
	return &Params{
		EmpiricalCoefficient:      decimal.RequireFromString("0.8"),
		DefaultChargingPowerKw:    decimal.NewFromInt(7),
		FastChargerPowerKw:        decimal.NewFromInt(120),
		SlowChargerPowerKw:        decimal.NewFromInt(7),
		UltraFastChargerPowerKw:   decimal.NewFromInt(350),
		TimeSlotIntervalMinutes:   15,
		EssUnitCostYuanPerKwh:     decimal.NewFromInt(1500),
		EssAnnualMaintenanceRatio: decimal.RequireFromString("0.02"),
		V2gDischargeDerate:        decimal.RequireFromString("0.85"),
		PileSuggestionRatios: [3]decimal.Decimal{
			decimal.RequireFromString("0.3"),
			decimal.RequireFromString("0.7"),
			decimal.RequireFromString("0.1"),
		},
		StandardTransformerSizes: map[string][]int{
			"CN": {30, 50, 80, 100, 125, 160, 200, 250, 315, 400, 500, 630, 800, 1000, 1250, 1600, 2000, 2500, 3150},
			"JP": {30, 50, 75, 100, 150, 200, 300, 500, 750, 1000, 1500, 2000, 3000},
			"UK": {25, 50, 100, 200, 315, 500, 800, 1000, 1500, 2000, 2500},
		},
		StandardEssModels: map[string][]EssModel{
			"CN": {{PowerKw: 100, CapacityKwh: 215}, {PowerKw: 125, CapacityKwh: 261}},
			"JP": {{PowerKw: 100, CapacityKwh: 215}, {PowerKw: 125, CapacityKwh: 261}},
			"UK": {{PowerKw: 100, CapacityKwh: 215}, {PowerKw: 125, CapacityKwh: 261}},
		},
	}
}

// fileParams is the on-disk YAML shape. Numeric overrides use float64 and
// convert to exact decimals; zero values mean "keep the default".
type fileParams struct {
	EmpiricalCoefficient      float64               `yaml:"empirical_coefficient"`
	DefaultChargingPowerKw    float64               `yaml:"default_charging_power_kw"`
	FastChargerPowerKw        float64               `yaml:"fast_charger_power_kw"`
	SlowChargerPowerKw        float64               `yaml:"slow_charger_power_kw"`
	UltraFastChargerPowerKw   float64               `yaml:"ultra_fast_charger_power_kw"`
	TimeSlotIntervalMinutes   int                   `yaml:"time_slot_interval_minutes"`
	EssUnitCostYuanPerKwh     float64               `yaml:"ess_unit_cost_yuan_per_kwh"`
	EssAnnualMaintenanceRatio float64               `yaml:"ess_annual_maintenance_ratio"`
	V2gDischargeDerate        float64               `yaml:"v2g_discharge_derate"`
	PileSuggestionRatios      []float64             `yaml:"pile_suggestion_ratios"`
	StandardTransformerSizes  map[string][]int      `yaml:"standard_transformer_sizes"`
	StandardEssModels         map[string][]EssModel `yaml:"standard_ess_models"`
}

// Load reads a YAML overlay and merges non-zero fields onto the defaults.
func Load(path string) (*Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileParams
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	p := Default()
	if f.EmpiricalCoefficient != 0 {
		p.EmpiricalCoefficient = decimal.NewFromFloat(f.EmpiricalCoefficient)
	}
	if f.DefaultChargingPowerKw != 0 {
		p.DefaultChargingPowerKw = decimal.NewFromFloat(f.DefaultChargingPowerKw)
	}
	if f.FastChargerPowerKw != 0 {
		p.FastChargerPowerKw = decimal.NewFromFloat(f.FastChargerPowerKw)
	}
	if f.SlowChargerPowerKw != 0 {
		p.SlowChargerPowerKw = decimal.NewFromFloat(f.SlowChargerPowerKw)
	}
	if f.UltraFastChargerPowerKw != 0 {
		p.UltraFastChargerPowerKw = decimal.NewFromFloat(f.UltraFastChargerPowerKw)
	}
	if f.TimeSlotIntervalMinutes != 0 {
		p.TimeSlotIntervalMinutes = f.TimeSlotIntervalMinutes
	}
	if f.EssUnitCostYuanPerKwh != 0 {
		p.EssUnitCostYuanPerKwh = decimal.NewFromFloat(f.EssUnitCostYuanPerKwh)
	}
	if f.EssAnnualMaintenanceRatio != 0 {
		p.EssAnnualMaintenanceRatio = decimal.NewFromFloat(f.EssAnnualMaintenanceRatio)
	}
	if f.V2gDischargeDerate != 0 {
		p.V2gDischargeDerate = decimal.NewFromFloat(f.V2gDischargeDerate)
	}
	if len(f.PileSuggestionRatios) == 3 {
		for i, r := range f.PileSuggestionRatios {
			p.PileSuggestionRatios[i] = decimal.NewFromFloat(r)
		}
	}
	for country, sizes := range f.StandardTransformerSizes {
		p.StandardTransformerSizes[country] = sizes
	}
	for country, models := range f.StandardEssModels {
		p.StandardEssModels[country] = models
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config %s invalid: %w", path, err)
	}
	return p, nil
}

func (p *Params) Validate() error {
	if p == nil {
		return errors.New("params is nil")
	}
	if p.TimeSlotIntervalMinutes <= 0 || (24*60)%p.TimeSlotIntervalMinutes != 0 {
		return errors.New("time_slot_interval_minutes must evenly divide a day")
	}
	if !p.EmpiricalCoefficient.IsPositive() {
		return errors.New("empirical_coefficient must be > 0")
	}
	if !p.V2gDischargeDerate.IsPositive() || p.V2gDischargeDerate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("v2g_discharge_derate must be in (0, 1]")
	}
	if p.EssAnnualMaintenanceRatio.IsNegative() {
		return errors.New("ess_annual_maintenance_ratio must be >= 0")
	}
	ratioSum := decimal.Zero
	for _, r := range p.PileSuggestionRatios {
		if r.IsNegative() {
			return errors.New("pile_suggestion_ratios must be >= 0")
		}
		ratioSum = ratioSum.Add(r)
	}
	if ratioSum.LessThan(decimal.NewFromInt(1)) {
		return errors.New("pile_suggestion_ratios must sum to >= 1")
	}
	return nil
}

// IntervalHours is the slot length in hours at scale 4 (0.25 for 15 min).
func (p *Params) IntervalHours() decimal.Decimal {
	return decimal.NewFromInt(int64(p.TimeSlotIntervalMinutes)).
		DivRound(decimal.NewFromInt(60), 4)
}
