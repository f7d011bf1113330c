// Package sizing selects transformer and energy-storage hardware for a peak
// load, rounding requirements up to the standard commercial modules of the
// station's country.
package sizing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"station-sizing/internal/config"
	"station-sizing/internal/model"
)

// SelectTransformer picks the smallest standard transformer >= requiredKw
// for the country. When every standard size is smaller, the largest one is
// returned. Unknown countries fall back to the CN list; with no list at all
// the requirement is rounded up to the next 100 kVA.
func SelectTransformer(requiredKw decimal.Decimal, country string, cfg *config.Params) decimal.Decimal {
	sizes, ok := cfg.StandardTransformerSizes[country]
	if !ok {
		sizes = cfg.StandardTransformerSizes["CN"]
	}
	if len(sizes) == 0 {
		hundred := decimal.NewFromInt(100)
		return requiredKw.Div(hundred).Ceil().Mul(hundred)
	}
	for _, size := range sizes {
		if decimal.NewFromInt(int64(size)).GreaterThanOrEqual(requiredKw) {
			return decimal.NewFromInt(int64(size))
		}
	}
	return decimal.NewFromInt(int64(sizes[len(sizes)-1]))
}

// SelectEssModel chooses the standard storage module and unit count covering
// both the power and capacity requirements. The winner needs the fewest
// units; ties go to the lowest total capacity (least overprovisioning).
// Units are at least 1 even for zero requirements.
func SelectEssModel(requiredPowerKw, requiredCapacityKwh decimal.Decimal, country string, cfg *config.Params) (config.EssModel, int) {
	models, ok := cfg.StandardEssModels[country]
	if !ok {
		models = cfg.StandardEssModels["CN"]
	}
	if len(models) == 0 {
		return config.EssModel{
			PowerKw:     int(requiredPowerKw.Ceil().IntPart()),
			CapacityKwh: int(requiredCapacityKwh.Ceil().IntPart()),
		}, 1
	}

	unitsFor := func(required decimal.Decimal, per int) int {
		if !required.IsPositive() {
			return 1
		}
		return int(required.Div(decimal.NewFromInt(int64(per))).Ceil().IntPart())
	}

	best := models[0]
	bestUnits := -1
	bestTotalCapacity := 0
	for _, m := range models {
		units := unitsFor(requiredPowerKw, m.PowerKw)
		if u := unitsFor(requiredCapacityKwh, m.CapacityKwh); u > units {
			units = u
		}
		totalCapacity := units * m.CapacityKwh
		if bestUnits < 0 || units < bestUnits || (units == bestUnits && totalCapacity < bestTotalCapacity) {
			best = m
			bestUnits = units
			bestTotalCapacity = totalCapacity
		}
	}
	return best, bestUnits
}

// EssMaxPower applies the empirical coefficient to the load peak: the ESS
// does not need to cover the absolute peak because PV and load diversity
// absorb part of it.
func EssMaxPower(loadPeakPowerKw decimal.Decimal, cfg *config.Params) decimal.Decimal {
	return loadPeakPowerKw.Mul(cfg.EmpiricalCoefficient).Round(2)
}

// EssRatedPower shaves the PV peak off the ESS max power, floored at zero.
func EssRatedPower(essMaxPowerKw, pvPeakPowerKw decimal.Decimal) decimal.Decimal {
	result := essMaxPowerKw.Sub(pvPeakPowerKw)
	if result.IsNegative() {
		return decimal.Zero
	}
	return result.Round(2)
}

// ValidateTransformer returns a warning when the ESS rated power exceeds the
// transformer capacity. Overflow is advisory, never a hard failure.
func ValidateTransformer(essRatedPowerKw, transformerKva decimal.Decimal) string {
	if essRatedPowerKw.GreaterThan(transformerKva) {
		excess := essRatedPowerKw.Sub(transformerKva).Round(2)
		return fmt.Sprintf(
			"ESS rated power (%s kW) exceeds transformer capacity (%s kVA) by %s kW. Reduce the number of charging vehicles or increase the transformer capacity.",
			essRatedPowerKw, transformerKva, excess,
		)
	}
	return ""
}

// Size rounds the power and capacity requirements up to the best standard
// module of the country and returns the resulting configuration.
func Size(requiredPowerKw, requiredCapacityKwh decimal.Decimal, country string, cfg *config.Params) model.EssSizing {
	m, units := SelectEssModel(requiredPowerKw, requiredCapacityKwh, country, cfg)
	return model.EssSizing{
		RatedPowerKw:          decimal.NewFromInt(int64(m.PowerKw * units)),
		CapacityKwh:           decimal.NewFromInt(int64(m.CapacityKwh * units)),
		CalculatedPowerKw:     requiredPowerKw,
		CalculatedCapacityKwh: requiredCapacityKwh,
		ModelPowerKw:          decimal.NewFromInt(int64(m.PowerKw)),
		ModelCapacityKwh:      decimal.NewFromInt(int64(m.CapacityKwh)),
		Units:                 units,
	}
}
