package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// StationConfig describes the fixed electrical context of a charging station.
// Units:
// - PvPeakPowerKw: kW (installed PV capacity)
// - TransformerKva: kVA; zero means "not specified, auto-select"
type StationConfig struct {
	PvPeakPowerKw  decimal.Decimal
	TransformerKva decimal.Decimal
	Country        string
}

func (s StationConfig) Validate() error {
	if s.Country == "" {
		return errors.New("country must not be empty")
	}
	if s.PvPeakPowerKw.IsNegative() {
		return errors.New("PvPeakPowerKw must be >= 0")
	}
	if s.TransformerKva.IsNegative() {
		return errors.New("TransformerKva must be >= 0")
	}
	return nil
}
