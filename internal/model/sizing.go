package model

import "github.com/shopspring/decimal"

// EssSizing is the recommended energy-storage configuration.
// Calculated values are the raw requirements before rounding to a standard
// module; the actual RatedPowerKw/CapacityKwh are modelValue × Units and are
// always >= the calculated values.
type EssSizing struct {
	RatedPowerKw          decimal.Decimal
	CapacityKwh           decimal.Decimal
	CalculatedPowerKw     decimal.Decimal
	CalculatedCapacityKwh decimal.Decimal
	ModelPowerKw          decimal.Decimal
	ModelCapacityKwh      decimal.Decimal
	Units                 int
}

// YearlyEconomic is one row of the 20-year projection. Monetary values are
// yuan at scale 2.
type YearlyEconomic struct {
	Year               int
	ArbitrageRevenue   decimal.Decimal
	PeakShavingRevenue decimal.Decimal
	OperatingCost      decimal.Decimal
	NetProfit          decimal.Decimal
	CumulativeProfit   decimal.Decimal
}
