package model

import "github.com/shopspring/decimal"

// LoadCurveResult is the output of the load-curve computation: per-day
// curves in Mon..Sun order, the max envelope across days, and the derived
// peaks. Discharge fields are populated only when V2G piles exist.
type LoadCurveResult struct {
	DailyCurves             []DayCurve
	Envelope                SlotCurve
	PeakPowerKw             decimal.Decimal
	DailyEnergyKwh          decimal.Decimal
	DailyDischargeEnergyKwh decimal.Decimal
	PeakDischargePowerKw    decimal.Decimal
	DailyArbitrageRevenue   decimal.Decimal
	V2gEnabled              bool
	Steps                   []string
}

// SizingResult is the output of the full storage-sizing computation.
type SizingResult struct {
	Ess                       EssSizing
	LoadPeakPowerKw           decimal.Decimal
	PvPeakPowerKw             decimal.Decimal
	TransformerCapacityKva    decimal.Decimal
	TransformerAutoCalculated bool
	Warning                   string
	LoadCurve                 SlotCurve
	YearlyEconomics           []YearlyEconomic
	Steps                     []string
}

// V2GResult is the output of the V2G arbitrage computation.
// PeakDischargePowerKw is the pile-rated discharge capability (charge power
// × derate), not the envelope-derived per-slot value.
type V2GResult struct {
	SuggestedPiles             PileCounts
	DailyCurves                []DayCurve
	Envelope                   SlotCurve
	PeakChargingPowerKw        decimal.Decimal
	PeakDischargePowerKw       decimal.Decimal
	DailyMaxChargingEnergyKwh  decimal.Decimal
	DailyMaxDischargeEnergyKwh decimal.Decimal
	DailyArbitrageRevenue      decimal.Decimal
	WeeklyArbitrageRevenue     decimal.Decimal
	YearlyArbitrageRevenue     decimal.Decimal
	DischargePowerRatio        decimal.Decimal
	Steps                      []string
}
