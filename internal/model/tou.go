package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PeriodType classifies a TOU tariff period.
type PeriodType string

const (
	PeriodPeak   PeriodType = "peak"
	PeriodHigh   PeriodType = "high"
	PeriodNormal PeriodType = "normal"
	PeriodValley PeriodType = "valley"
)

// ClockRange is a [start, end) wall-clock interval in "HH:MM" form.
// Start > End wraps past midnight.
type ClockRange struct {
	Start string
	End   string
}

// TouPeriod is one tariff period: a price that applies during its time
// ranges. Periods are matched in list order and the first match wins;
// overlaps between periods are therefore allowed.
type TouPeriod struct {
	PeriodType PeriodType
	TimeRanges []ClockRange
	Price      decimal.Decimal
}

func (p TouPeriod) Validate() error {
	if !p.Price.IsPositive() {
		return errors.New("TOU price must be > 0")
	}
	return nil
}
