package schedule

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
	"station-sizing/internal/timegrid"
)

// WeekResult aggregates the seven day curves of one planning run.
type WeekResult struct {
	DailyCurves       []model.DayCurve
	Envelope          model.SlotCurve
	PeakPowerKw       decimal.Decimal
	DailyMaxEnergyKwh decimal.Decimal
	MaxDailyArbitrage decimal.Decimal
	WeeklyArbitrage   decimal.Decimal
}

const defaultMinSocPercent = 80

// effectiveMinSoc is the V1G charge target: the highest positive minSoc
// found across all operating days' ranges, defaulting to 80%.
func effectiveMinSoc(schedule model.WeeklySchedule) (percent, rangesFound int) {
	percent = defaultMinSocPercent
	max := 0
	for _, day := range schedule {
		if !day.Operating {
			continue
		}
		for _, r := range day.ChargeableRanges {
			if r.MinSoc > 0 {
				rangesFound++
				if r.MinSoc > max {
					max = r.MinSoc
				}
			}
		}
	}
	if max > 0 {
		percent = max
	}
	return percent, rangesFound
}

// daySlots resolves a day's chargeable ranges into a slot set and ordered
// range infos. Ranges with empty endpoints are skipped; malformed clock
// strings are an error.
func (p *Planner) daySlots(ranges []model.TimeRange) (map[int]struct{}, []RangeInfo, error) {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)
	set := make(map[int]struct{})
	infos := make([]RangeInfo, 0, len(ranges))
	for _, r := range ranges {
		if r.Start == "" || r.End == "" {
			continue
		}
		from, err := timegrid.TimeToSlot(r.Start, interval)
		if err != nil {
			return nil, nil, fmt.Errorf("chargeable range: %w", err)
		}
		to, err := timegrid.TimeToSlot(r.End, interval)
		if err != nil {
			return nil, nil, fmt.Errorf("chargeable range: %w", err)
		}
		if to >= slotsPerDay {
			to = slotsPerDay - 1
		}
		timegrid.AddSlotsInRange(set, from, to, slotsPerDay)
		minSoc := r.MinSoc
		if minSoc <= 0 {
			minSoc = defaultMinSocPercent
		}
		infos = append(infos, RangeInfo{
			StartSlot: from,
			EndSlot:   to,
			MinSoc:    minSoc,
			Start:     r.Start,
			End:       r.End,
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].StartSlot < infos[j].StartSlot
	})
	return set, infos, nil
}

func (p *Planner) allSlots() map[int]struct{} {
	slotsPerDay := timegrid.SlotsPerDay(p.Cfg.TimeSlotIntervalMinutes)
	set := make(map[int]struct{}, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		set[i] = struct{}{}
	}
	return set
}

// PlanWeek computes the V1G-only week: one curve per operating day plus the
// max envelope and peak aggregates.
func (p *Planner) PlanWeek(
	weekly model.WeeklySchedule,
	periods []timegrid.PricePeriod,
	vehicleCount int,
	batteryKwh decimal.Decimal,
	enableTimeControl bool,
	totalChargingPowerKw decimal.Decimal,
	trace *model.Trace,
) (WeekResult, error) {
	intervalHours := p.Cfg.IntervalHours()
	hundred := decimal.NewFromInt(100)

	minSoc, rangesFound := effectiveMinSoc(weekly)
	socRange := decimal.NewFromInt(int64(minSoc)).DivRound(hundred, 4)
	dailyEnergy := batteryKwh.Mul(socRange).Mul(decimal.NewFromInt(int64(vehicleCount)))
	maxEnergyPerSlot := totalChargingPowerKw.Mul(intervalHours)

	trace.Addf("Step 2b: Effective minSOC = %d%% (max across all chargeable ranges, %d ranges found)", minSoc, rangesFound)
	trace.Addf("Step 2c: Daily energy demand = %d vehicles x %skWh x %d%% SOC = %skWh",
		vehicleCount, batteryKwh, minSoc, dailyEnergy.Round(2))
	trace.Addf("Step 2d: Max energy per slot = %skW x %sh = %skWh",
		totalChargingPowerKw, intervalHours, maxEnergyPerSlot.Round(2))

	var daily []model.DayCurve

	if !enableTimeControl {
		trace.Addf("Step 2e: Time control DISABLED - all slots are chargeable for all days")
		curve := p.V1GDayCurve(p.allSlots(), periods, dailyEnergy, maxEnergyPerSlot)
		for _, name := range model.WeekdayNames {
			daily = append(daily, model.DayCurve{Day: name, Curve: curve})
		}
	} else {
		for idx := 0; idx < len(weekly) && idx < 7; idx++ {
			entry := weekly[idx]
			name := model.WeekdayNames[idx]
			if !entry.Operating {
				continue
			}
			slots, _, err := p.daySlots(entry.ChargeableRanges)
			if err != nil {
				return WeekResult{}, fmt.Errorf("%s: %w", name, err)
			}
			if len(slots) == 0 {
				trace.Addf("Step 2e[%s]: No chargeable slots - zero curve", name)
				daily = append(daily, model.DayCurve{Day: name, Curve: timegrid.ZeroCurve(p.Cfg.TimeSlotIntervalMinutes)})
				continue
			}
			trace.Addf("Step 2e[%s]: %d chargeable slots from configured ranges", name, len(slots))
			daily = append(daily, model.DayCurve{
				Day:   name,
				Curve: p.V1GDayCurve(slots, periods, dailyEnergy, maxEnergyPerSlot),
			})
		}
		if len(daily) == 0 {
			trace.Addf("Step 2f: No operating days found - all curves are zero")
			return p.zeroWeek(), nil
		}
	}

	result := p.aggregate(daily, decimal.Zero, decimal.Zero)
	trace.Addf("Step 2f: Per-day curves computed for %d days, envelope peak=%skW, max daily energy=%skWh",
		len(daily), result.PeakPowerKw.Round(2), result.DailyMaxEnergyKwh)
	return result, nil
}

// PlanWeekV2G computes the week with bidirectional piles. The caller
// provides the already-partitioned V1G and V2G powers; demand for the V1G
// share uses the global max-minSoc target while the V2G share follows
// per-range targets inside V2GDayCurve.
func (p *Planner) PlanWeekV2G(
	weekly model.WeeklySchedule,
	periods []timegrid.PricePeriod,
	vehicleCount int,
	batteryKwh decimal.Decimal,
	enableTimeControl bool,
	v1gChargePowerKw decimal.Decimal,
	v2gChargePowerKw decimal.Decimal,
	v2gDischargePowerKw decimal.Decimal,
	totalV2gPiles int,
	trace *model.Trace,
) (WeekResult, error) {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)
	intervalHours := p.Cfg.IntervalHours()
	hundred := decimal.NewFromInt(100)

	v2gVehicles := totalV2gPiles
	if vehicleCount < v2gVehicles {
		v2gVehicles = vehicleCount
	}
	v1gVehicles := vehicleCount - v2gVehicles

	minSoc, _ := effectiveMinSoc(weekly)
	socRange := decimal.NewFromInt(int64(minSoc)).DivRound(hundred, 4)
	v1gDemand := batteryKwh.Mul(socRange).Mul(decimal.NewFromInt(int64(v1gVehicles)))
	v1gMaxPerSlot := v1gChargePowerKw.Mul(intervalHours)
	v2gMaxChargePerSlot := v2gChargePowerKw.Mul(intervalHours)
	v2gMaxDischargePerSlot := v2gDischargePowerKw.Mul(intervalHours)

	trace.Addf("Step 2b-V2G: V1G vehicles=%d, V2G vehicles=%d, V1G target SOC=%d%%", v1gVehicles, v2gVehicles, minSoc)
	trace.Addf("Step 2c-V2G: V1G charge demand=%skWh, V1G power=%skW", v1gDemand.Round(2), v1gChargePowerKw)
	trace.Addf("Step 2d-V2G: V2G charge power=%skW, V2G discharge power=%skW", v2gChargePowerKw, v2gDischargePowerKw)

	dayParams := func(slots map[int]struct{}, ranges []RangeInfo, label string) V2GDayParams {
		return V2GDayParams{
			Chargeable:             slots,
			Ranges:                 ranges,
			Periods:                periods,
			V1gEnergyDemand:        v1gDemand,
			V1gMaxEnergyPerSlot:    v1gMaxPerSlot,
			V2gVehicles:            v2gVehicles,
			V2gChargePowerKw:       v2gChargePowerKw,
			V2gDischargePowerKw:    v2gDischargePowerKw,
			V2gMaxChargePerSlot:    v2gMaxChargePerSlot,
			V2gMaxDischargePerSlot: v2gMaxDischargePerSlot,
			BatteryKwh:             batteryKwh,
			DayLabel:               label,
		}
	}

	var daily []model.DayCurve
	maxDaily := decimal.Zero
	weekSum := decimal.Zero

	if !enableTimeControl {
		// One synthetic full-day range at the default SOC target; the same
		// curve serves every weekday.
		fullDay := []RangeInfo{{
			StartSlot: 0,
			EndSlot:   slotsPerDay - 1,
			MinSoc:    defaultMinSocPercent,
			Start:     "00:00",
			End:       timegrid.SlotToTime(slotsPerDay-1, interval),
		}}
		dayResult := p.V2GDayCurve(dayParams(p.allSlots(), fullDay, "all-day"), trace)
		for _, name := range model.WeekdayNames {
			daily = append(daily, model.DayCurve{Day: name, Curve: dayResult.Curve})
		}
		maxDaily = dayResult.Arbitrage
		weekSum = dayResult.Arbitrage.Mul(decimal.NewFromInt(7))
	} else {
		for idx := 0; idx < len(weekly) && idx < 7; idx++ {
			entry := weekly[idx]
			name := model.WeekdayNames[idx]
			if !entry.Operating {
				continue
			}
			slots, ranges, err := p.daySlots(entry.ChargeableRanges)
			if err != nil {
				return WeekResult{}, fmt.Errorf("%s: %w", name, err)
			}
			if len(slots) == 0 {
				daily = append(daily, model.DayCurve{Day: name, Curve: timegrid.ZeroCurve(interval)})
				continue
			}
			dayResult := p.V2GDayCurve(dayParams(slots, ranges, name), trace)
			daily = append(daily, model.DayCurve{Day: name, Curve: dayResult.Curve})
			weekSum = weekSum.Add(dayResult.Arbitrage)
			if dayResult.Arbitrage.GreaterThan(maxDaily) {
				maxDaily = dayResult.Arbitrage
			}
		}
		if len(daily) == 0 {
			return p.zeroWeek(), nil
		}
	}

	return p.aggregate(daily, maxDaily, weekSum), nil
}

func (p *Planner) zeroWeek() WeekResult {
	return WeekResult{
		DailyCurves:       nil,
		Envelope:          timegrid.ZeroCurve(p.Cfg.TimeSlotIntervalMinutes),
		PeakPowerKw:       decimal.Zero,
		DailyMaxEnergyKwh: decimal.Zero,
		MaxDailyArbitrage: decimal.Zero,
		WeeklyArbitrage:   decimal.Zero,
	}
}

// aggregate builds the max envelope (charge max, discharge min per slot) and
// the peak/energy aggregates over the computed days.
func (p *Planner) aggregate(daily []model.DayCurve, maxDailyArbitrage, weeklyArbitrage decimal.Decimal) WeekResult {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)
	intervalHours := p.Cfg.IntervalHours()

	envelope := make(model.SlotCurve, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		maxCharge := decimal.Zero
		minDischarge := decimal.Zero
		for _, day := range daily {
			if i >= len(day.Curve) {
				continue
			}
			pt := day.Curve[i]
			if pt.ChargePowerKw.GreaterThan(maxCharge) {
				maxCharge = pt.ChargePowerKw
			}
			if pt.DischargePowerKw.LessThan(minDischarge) {
				minDischarge = pt.DischargePowerKw
			}
		}
		envelope[i] = model.SlotPoint{
			TimeSlot:           timegrid.SlotToTime(i, interval),
			ChargePowerKw:      maxCharge,
			DischargePowerKw:   minDischarge,
			ChargeEnergyKwh:    decimal.Zero,
			DischargeEnergyKwh: decimal.Zero,
		}
	}

	dailyMaxEnergy := decimal.Zero
	for _, day := range daily {
		e := day.Curve.ChargeEnergyKwh(intervalHours)
		if e.GreaterThan(dailyMaxEnergy) {
			dailyMaxEnergy = e
		}
	}

	return WeekResult{
		DailyCurves:       daily,
		Envelope:          envelope,
		PeakPowerKw:       envelope.PeakChargePowerKw(),
		DailyMaxEnergyKwh: dailyMaxEnergy,
		MaxDailyArbitrage: maxDailyArbitrage,
		WeeklyArbitrage:   weeklyArbitrage,
	}
}

// MaxDailyDischargeEnergy is the largest per-day discharged energy across
// the computed curves, as a positive magnitude.
func (p *Planner) MaxDailyDischargeEnergy(daily []model.DayCurve) decimal.Decimal {
	intervalHours := p.Cfg.IntervalHours()
	max := decimal.Zero
	for _, day := range daily {
		e := day.Curve.DischargeEnergyKwh(intervalHours)
		if e.GreaterThan(max) {
			max = e
		}
	}
	return max
}
