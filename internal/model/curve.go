package model

import "github.com/shopspring/decimal"

// SlotPoint is one 15-minute sample of a day's load curve.
//
// The power fields carry the rated instantaneous power while the slot is
// active; the energy fields carry the integrated kWh actually delivered in
// the slot. The last slot filled by the greedy dispatch may therefore show
// rated ChargePowerKw alongside a partial ChargeEnergyKwh: the charger runs
// at rated power for a fraction of the slot. Discharge values are negative.
type SlotPoint struct {
	TimeSlot           string
	ChargePowerKw      decimal.Decimal
	DischargePowerKw   decimal.Decimal
	ChargeEnergyKwh    decimal.Decimal
	DischargeEnergyKwh decimal.Decimal
}

// SlotCurve is a full day of slot points (96 entries at 15-minute steps).
type SlotCurve []SlotPoint

// DayCurve labels a curve with its weekday name.
type DayCurve struct {
	Day   string
	Curve SlotCurve
}

// ChargeEnergyKwh sums the day's delivered charge energy. Slots that carry
// power but no recorded energy fall back to power × interval.
func (c SlotCurve) ChargeEnergyKwh(intervalHours decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		if p.ChargeEnergyKwh.IsPositive() {
			total = total.Add(p.ChargeEnergyKwh)
		} else {
			total = total.Add(p.ChargePowerKw.Mul(intervalHours))
		}
	}
	return total.Round(2)
}

// DischargeEnergyKwh sums the day's delivered discharge energy as a
// positive magnitude. Stored values are negative.
func (c SlotCurve) DischargeEnergyKwh(intervalHours decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		if p.DischargeEnergyKwh.IsNegative() {
			total = total.Add(p.DischargeEnergyKwh.Abs())
		} else {
			total = total.Add(p.DischargePowerKw.Abs().Mul(intervalHours))
		}
	}
	return total.Round(2)
}

// PeakChargePowerKw returns the maximum charge power across the curve.
func (c SlotCurve) PeakChargePowerKw() decimal.Decimal {
	peak := decimal.Zero
	for _, p := range c {
		if p.ChargePowerKw.GreaterThan(peak) {
			peak = p.ChargePowerKw
		}
	}
	return peak
}

// PeakDischargePowerKw returns the largest discharge magnitude across the
// curve (the most negative DischargePowerKw, as a positive number).
func (c SlotCurve) PeakDischargePowerKw() decimal.Decimal {
	min := decimal.Zero
	for _, p := range c {
		if p.DischargePowerKw.LessThan(min) {
			min = p.DischargePowerKw
		}
	}
	return min.Abs()
}
