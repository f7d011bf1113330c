package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PileCounts holds the number of charging piles per power class.
type PileCounts struct {
	Fast      int
	Slow      int
	UltraFast int
}

func (p PileCounts) Total() int {
	return p.Fast + p.Slow + p.UltraFast
}

// Sub returns the element-wise difference p - o. Counts may go negative;
// callers that subtract V2G piles from totals validate beforehand.
func (p PileCounts) Sub(o PileCounts) PileCounts {
	return PileCounts{
		Fast:      p.Fast - o.Fast,
		Slow:      p.Slow - o.Slow,
		UltraFast: p.UltraFast - o.UltraFast,
	}
}

// FleetConfig describes the EV fleet served by the station.
// BatteryKwh is the battery capacity of a single vehicle.
// V2gPiles is the subset of Piles that is bidirectional; each class count
// must not exceed the corresponding total.
type FleetConfig struct {
	VehicleCount      int
	BatteryKwh        decimal.Decimal
	EnableTimeControl bool
	Piles             PileCounts
	V2gPiles          PileCounts
}

func (f FleetConfig) Validate() error {
	if f.VehicleCount < 0 {
		return errors.New("VehicleCount must be >= 0")
	}
	if f.BatteryKwh.IsNegative() {
		return errors.New("BatteryKwh must be >= 0")
	}
	if f.Piles.Fast < 0 || f.Piles.Slow < 0 || f.Piles.UltraFast < 0 {
		return errors.New("pile counts must be >= 0")
	}
	if f.V2gPiles.Fast < 0 || f.V2gPiles.Slow < 0 || f.V2gPiles.UltraFast < 0 {
		return errors.New("V2G pile counts must be >= 0")
	}
	if f.V2gPiles.Fast > f.Piles.Fast || f.V2gPiles.Slow > f.Piles.Slow || f.V2gPiles.UltraFast > f.Piles.UltraFast {
		return errors.New("V2G pile counts must not exceed total pile counts")
	}
	return nil
}

// V2gEnabled reports whether any bidirectional pile is configured.
func (f FleetConfig) V2gEnabled() bool {
	return f.V2gPiles.Total() > 0
}
