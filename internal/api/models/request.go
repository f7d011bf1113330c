package models

import (
	"github.com/shopspring/decimal"

	"station-sizing/internal/engine"
	"station-sizing/internal/model"
)

// TimeRangeEntry is the wire shape of a chargeable or tariff time range.
type TimeRangeEntry struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	MinSoc int    `json:"minSoc,omitempty"`
}

// WeeklyScheduleEntry is the wire shape of one weekday's schedule.
type WeeklyScheduleEntry struct {
	Day              string           `json:"day"`
	IsOperating      bool             `json:"isOperating"`
	ChargeableRanges []TimeRangeEntry `json:"chargeableRanges"`
	DepartureCount   int              `json:"departureCount"`
}

// SpecialDateEntry is the wire shape of a single-date schedule. It is
// persisted with the fleet configuration; the weekly computation ignores it.
type SpecialDateEntry struct {
	Date             string           `json:"date"`
	ChargeableRanges []TimeRangeEntry `json:"chargeableRanges"`
	DepartureCount   int              `json:"departureCount"`
}

// TouPriceEntry is one tariff period in a request.
type TouPriceEntry struct {
	PeriodType string           `json:"periodType"`
	TimeRanges []TimeRangeEntry `json:"timeRanges"`
	Price      decimal.Decimal  `json:"price"`
}

// V2gCalculateRequest is the standalone V2G computation input.
type V2gCalculateRequest struct {
	VehicleCount         int                   `json:"vehicleCount"`
	BatteryCapacityKwh   decimal.Decimal       `json:"batteryCapacityKwh"`
	EnableTimeControl    *bool                 `json:"enableTimeControl"`
	WeeklySchedule       []WeeklyScheduleEntry `json:"weeklySchedule"`
	FastChargers         int                   `json:"fastChargers"`
	SlowChargers         int                   `json:"slowChargers"`
	UltraFastChargers    int                   `json:"ultraFastChargers"`
	FastChargersV2g      int                   `json:"fastChargersV2g"`
	SlowChargersV2g      int                   `json:"slowChargersV2g"`
	UltraFastChargersV2g int                   `json:"ultraFastChargersV2g"`
	TouPrices            []TouPriceEntry       `json:"touPrices"`
	DischargePowerRatio  decimal.Decimal       `json:"dischargePowerRatio"`
}

// ToEngine converts the wire request into the engine's value objects.
func (r V2gCalculateRequest) ToEngine() engine.V2GRequest {
	enableTimeControl := true
	if r.EnableTimeControl != nil {
		enableTimeControl = *r.EnableTimeControl
	}
	return engine.V2GRequest{
		Fleet: model.FleetConfig{
			VehicleCount:      r.VehicleCount,
			BatteryKwh:        r.BatteryCapacityKwh,
			EnableTimeControl: enableTimeControl,
			Piles: model.PileCounts{
				Fast:      r.FastChargers,
				Slow:      r.SlowChargers,
				UltraFast: r.UltraFastChargers,
			},
			V2gPiles: model.PileCounts{
				Fast:      r.FastChargersV2g,
				Slow:      r.SlowChargersV2g,
				UltraFast: r.UltraFastChargersV2g,
			},
		},
		Schedule:            ToWeeklySchedule(r.WeeklySchedule),
		Tous:                ToTouPeriods(r.TouPrices),
		DischargePowerRatio: r.DischargePowerRatio,
	}
}

// SizingCalculateRequest carries the per-run sizing knobs.
type SizingCalculateRequest struct {
	ChargeMode         string          `json:"chargeMode"`
	AnnualDecayPercent decimal.Decimal `json:"annualDecayPercent"`
	EnablePeakShaving  bool            `json:"enablePeakShaving"`
	PeakShavingSubsidy decimal.Decimal `json:"peakShavingSubsidy"`
}

func (r SizingCalculateRequest) ToEngine() engine.SizingRequest {
	return engine.SizingRequest{
		ChargeMode:         r.ChargeMode,
		AnnualDecayPercent: r.AnnualDecayPercent,
		EnablePeakShaving:  r.EnablePeakShaving,
		PeakShavingSubsidy: r.PeakShavingSubsidy,
	}
}

// CreateProjectRequest creates or renames a project.
type CreateProjectRequest struct {
	Name                   string          `json:"name" binding:"required"`
	TransformerCapacityKva decimal.Decimal `json:"transformerCapacityKva"`
}

// PvConfigRequest upserts a project's PV installation.
type PvConfigRequest struct {
	InstalledCapacityKw decimal.Decimal `json:"installedCapacityKw"`
}

// FleetConfigRequest upserts a project's fleet and pile configuration.
type FleetConfigRequest struct {
	VehicleCount         int                   `json:"vehicleCount"`
	BatteryCapacityKwh   decimal.Decimal       `json:"batteryCapacityKwh"`
	EnableTimeControl    *bool                 `json:"enableTimeControl"`
	WeeklySchedule       []WeeklyScheduleEntry `json:"weeklySchedule"`
	SpecialDates         []SpecialDateEntry    `json:"specialDates"`
	FastChargers         int                   `json:"fastChargers"`
	SlowChargers         int                   `json:"slowChargers"`
	UltraFastChargers    int                   `json:"ultraFastChargers"`
	FastChargersV2g      int                   `json:"fastChargersV2g"`
	SlowChargersV2g      int                   `json:"slowChargersV2g"`
	UltraFastChargersV2g int                   `json:"ultraFastChargersV2g"`
}

// PriceEntry is one tariff period in a batch upsert.
type PriceEntry struct {
	PeriodType string           `json:"periodType" binding:"required"`
	TimeRanges []TimeRangeEntry `json:"timeRanges"`
	Price      decimal.Decimal  `json:"price"`
	Country    string           `json:"country"`
}

// PriceBatchRequest replaces a project's whole tariff.
type PriceBatchRequest struct {
	Prices []PriceEntry `json:"prices" binding:"required"`
}

// ToWeeklySchedule converts wire schedule entries into the core value.
func ToWeeklySchedule(entries []WeeklyScheduleEntry) model.WeeklySchedule {
	out := make(model.WeeklySchedule, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.DaySchedule{
			Day:              e.Day,
			Operating:        e.IsOperating,
			ChargeableRanges: toModelRanges(e.ChargeableRanges),
			DepartureCount:   e.DepartureCount,
		})
	}
	return out
}

// ToSpecialDates converts wire special dates into the core value.
func ToSpecialDates(entries []SpecialDateEntry) []model.SpecialDate {
	out := make([]model.SpecialDate, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.SpecialDate{
			Date:             e.Date,
			ChargeableRanges: toModelRanges(e.ChargeableRanges),
			DepartureCount:   e.DepartureCount,
		})
	}
	return out
}

// ToTouPeriods converts wire tariff entries into the core value.
func ToTouPeriods(entries []TouPriceEntry) []model.TouPeriod {
	out := make([]model.TouPeriod, 0, len(entries))
	for _, e := range entries {
		ranges := make([]model.ClockRange, 0, len(e.TimeRanges))
		for _, r := range e.TimeRanges {
			if r.Start == "" || r.End == "" {
				continue
			}
			ranges = append(ranges, model.ClockRange{Start: r.Start, End: r.End})
		}
		out = append(out, model.TouPeriod{
			PeriodType: model.PeriodType(e.PeriodType),
			TimeRanges: ranges,
			Price:      e.Price,
		})
	}
	return out
}

func toModelRanges(in []TimeRangeEntry) []model.TimeRange {
	out := make([]model.TimeRange, 0, len(in))
	for _, r := range in {
		out = append(out, model.TimeRange{Start: r.Start, End: r.End, MinSoc: r.MinSoc})
	}
	return out
}
