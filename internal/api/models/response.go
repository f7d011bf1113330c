package models

import (
	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
)

// ErrorResponse is the error envelope returned by every failing endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SlotPoint is the wire shape of one curve sample.
type SlotPoint struct {
	TimeSlot           string          `json:"timeSlot"`
	ChargePowerKw      decimal.Decimal `json:"chargePowerKw"`
	DischargePowerKw   decimal.Decimal `json:"dischargePowerKw"`
	ChargeEnergyKwh    decimal.Decimal `json:"chargeEnergyKwh"`
	DischargeEnergyKwh decimal.Decimal `json:"dischargeEnergyKwh"`
}

// DayCurve is one weekday's curve.
type DayCurve struct {
	Day   string      `json:"day"`
	Curve []SlotPoint `json:"curve"`
}

// LoadCurveResponse mirrors model.LoadCurveResult.
type LoadCurveResponse struct {
	LoadCurve               []SlotPoint     `json:"loadCurve"`
	DailyLoadCurves         []DayCurve      `json:"dailyLoadCurves"`
	PeakPowerKw             decimal.Decimal `json:"peakPowerKw"`
	DailyEnergyKwh          decimal.Decimal `json:"dailyEnergyKwh"`
	DailyDischargeEnergyKwh decimal.Decimal `json:"dailyDischargeEnergyKwh"`
	PeakDischargePowerKw    decimal.Decimal `json:"peakDischargePowerKw"`
	DailyArbitrageRevenue   decimal.Decimal `json:"dailyArbitrageRevenue"`
	V2gEnabled              bool            `json:"v2gEnabled"`
	CalculationSteps        []string        `json:"calculationSteps"`
}

// YearlyEconomic is one projection row on the wire.
type YearlyEconomic struct {
	Year               int             `json:"year"`
	ArbitrageRevenue   decimal.Decimal `json:"arbitrageRevenue"`
	PeakShavingRevenue decimal.Decimal `json:"peakShavingRevenue"`
	OperatingCost      decimal.Decimal `json:"operatingCost"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	CumulativeProfit   decimal.Decimal `json:"cumulativeProfit"`
}

// SizingResponse mirrors model.SizingResult.
type SizingResponse struct {
	EssRatedPowerKw           decimal.Decimal  `json:"essRatedPowerKw"`
	EssCapacityKwh            decimal.Decimal  `json:"essCapacityKwh"`
	EssCalculatedPowerKw      decimal.Decimal  `json:"essCalculatedPowerKw"`
	EssCalculatedCapacityKwh  decimal.Decimal  `json:"essCalculatedCapacityKwh"`
	EssModelPowerKw           decimal.Decimal  `json:"essModelPowerKw"`
	EssModelCapacityKwh       decimal.Decimal  `json:"essModelCapacityKwh"`
	EssUnits                  int              `json:"essUnits"`
	LoadPeakPowerKw           decimal.Decimal  `json:"loadPeakPowerKw"`
	PvPeakPowerKw             decimal.Decimal  `json:"pvPeakPowerKw"`
	TransformerCapacityKva    decimal.Decimal  `json:"transformerCapacityKva"`
	TransformerAutoCalculated bool             `json:"transformerAutoCalculated"`
	Warning                   string           `json:"warning,omitempty"`
	LoadCurve                 []SlotPoint      `json:"loadCurve"`
	YearlyEconomics           []YearlyEconomic `json:"yearlyEconomics"`
	CalculationSteps          []string         `json:"calculationSteps"`
}

// V2GResponse mirrors model.V2GResult.
type V2GResponse struct {
	SuggestedFastChargers      int             `json:"suggestedFastChargers"`
	SuggestedSlowChargers      int             `json:"suggestedSlowChargers"`
	SuggestedUltraFastChargers int             `json:"suggestedUltraFastChargers"`
	DailyLoadCurves            []DayCurve      `json:"dailyLoadCurves"`
	MaxEnvelopeCurve           []SlotPoint     `json:"maxEnvelopeCurve"`
	PeakChargingPowerKw        decimal.Decimal `json:"peakChargingPowerKw"`
	PeakDischargePowerKw       decimal.Decimal `json:"peakDischargePowerKw"`
	DailyMaxChargingEnergyKwh  decimal.Decimal `json:"dailyMaxChargingEnergyKwh"`
	DailyMaxDischargeEnergyKwh decimal.Decimal `json:"dailyMaxDischargeEnergyKwh"`
	DailyArbitrageRevenue      decimal.Decimal `json:"dailyArbitrageRevenue"`
	WeeklyArbitrageRevenue     decimal.Decimal `json:"weeklyArbitrageRevenue"`
	YearlyArbitrageRevenue     decimal.Decimal `json:"yearlyArbitrageRevenue"`
	DischargePowerRatio        decimal.Decimal `json:"dischargePowerRatio"`
	CalculationSteps           []string        `json:"calculationSteps"`
}

// ProjectResponse is the wire shape of a project row.
type ProjectResponse struct {
	ID                     int64           `json:"id"`
	Name                   string          `json:"name"`
	TransformerCapacityKva decimal.Decimal `json:"transformerCapacityKva"`
}

func FromSlotCurve(curve model.SlotCurve) []SlotPoint {
	out := make([]SlotPoint, len(curve))
	for i, p := range curve {
		out[i] = SlotPoint{
			TimeSlot:           p.TimeSlot,
			ChargePowerKw:      p.ChargePowerKw,
			DischargePowerKw:   p.DischargePowerKw,
			ChargeEnergyKwh:    p.ChargeEnergyKwh,
			DischargeEnergyKwh: p.DischargeEnergyKwh,
		}
	}
	return out
}

func FromDayCurves(daily []model.DayCurve) []DayCurve {
	out := make([]DayCurve, len(daily))
	for i, d := range daily {
		out[i] = DayCurve{Day: d.Day, Curve: FromSlotCurve(d.Curve)}
	}
	return out
}

func FromLoadCurveResult(r *model.LoadCurveResult) LoadCurveResponse {
	return LoadCurveResponse{
		LoadCurve:               FromSlotCurve(r.Envelope),
		DailyLoadCurves:         FromDayCurves(r.DailyCurves),
		PeakPowerKw:             r.PeakPowerKw,
		DailyEnergyKwh:          r.DailyEnergyKwh,
		DailyDischargeEnergyKwh: r.DailyDischargeEnergyKwh,
		PeakDischargePowerKw:    r.PeakDischargePowerKw,
		DailyArbitrageRevenue:   r.DailyArbitrageRevenue,
		V2gEnabled:              r.V2gEnabled,
		CalculationSteps:        r.Steps,
	}
}

func FromSizingResult(r *model.SizingResult) SizingResponse {
	yearly := make([]YearlyEconomic, len(r.YearlyEconomics))
	for i, y := range r.YearlyEconomics {
		yearly[i] = YearlyEconomic{
			Year:               y.Year,
			ArbitrageRevenue:   y.ArbitrageRevenue,
			PeakShavingRevenue: y.PeakShavingRevenue,
			OperatingCost:      y.OperatingCost,
			NetProfit:          y.NetProfit,
			CumulativeProfit:   y.CumulativeProfit,
		}
	}
	return SizingResponse{
		EssRatedPowerKw:           r.Ess.RatedPowerKw,
		EssCapacityKwh:            r.Ess.CapacityKwh,
		EssCalculatedPowerKw:      r.Ess.CalculatedPowerKw,
		EssCalculatedCapacityKwh:  r.Ess.CalculatedCapacityKwh,
		EssModelPowerKw:           r.Ess.ModelPowerKw,
		EssModelCapacityKwh:       r.Ess.ModelCapacityKwh,
		EssUnits:                  r.Ess.Units,
		LoadPeakPowerKw:           r.LoadPeakPowerKw,
		PvPeakPowerKw:             r.PvPeakPowerKw,
		TransformerCapacityKva:    r.TransformerCapacityKva,
		TransformerAutoCalculated: r.TransformerAutoCalculated,
		Warning:                   r.Warning,
		LoadCurve:                 FromSlotCurve(r.LoadCurve),
		YearlyEconomics:           yearly,
		CalculationSteps:          r.Steps,
	}
}

func FromV2GResult(r *model.V2GResult) V2GResponse {
	return V2GResponse{
		SuggestedFastChargers:      r.SuggestedPiles.Fast,
		SuggestedSlowChargers:      r.SuggestedPiles.Slow,
		SuggestedUltraFastChargers: r.SuggestedPiles.UltraFast,
		DailyLoadCurves:            FromDayCurves(r.DailyCurves),
		MaxEnvelopeCurve:           FromSlotCurve(r.Envelope),
		PeakChargingPowerKw:        r.PeakChargingPowerKw,
		PeakDischargePowerKw:       r.PeakDischargePowerKw,
		DailyMaxChargingEnergyKwh:  r.DailyMaxChargingEnergyKwh,
		DailyMaxDischargeEnergyKwh: r.DailyMaxDischargeEnergyKwh,
		DailyArbitrageRevenue:      r.DailyArbitrageRevenue,
		WeeklyArbitrageRevenue:     r.WeeklyArbitrageRevenue,
		YearlyArbitrageRevenue:     r.YearlyArbitrageRevenue,
		DischargePowerRatio:        r.DischargePowerRatio,
		CalculationSteps:           r.Steps,
	}
}
