package schedule

import (
	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
	"station-sizing/internal/timegrid"
)

// RangeInfo is one chargeable window resolved to slot indices, with the
// departure SOC target the V2G vehicles must reach by the end of it.
type RangeInfo struct {
	StartSlot int
	EndSlot   int
	MinSoc    int
	Start     string
	End       string
}

// V2GDayParams bundles the per-day inputs of the bidirectional dispatch.
// Ranges must already be ordered by start slot.
type V2GDayParams struct {
	Chargeable             map[int]struct{}
	Ranges                 []RangeInfo
	Periods                []timegrid.PricePeriod
	V1gEnergyDemand        decimal.Decimal
	V1gMaxEnergyPerSlot    decimal.Decimal
	V2gVehicles            int
	V2gChargePowerKw       decimal.Decimal
	V2gDischargePowerKw    decimal.Decimal
	V2gMaxChargePerSlot    decimal.Decimal
	V2gMaxDischargePerSlot decimal.Decimal
	BatteryKwh             decimal.Decimal
	DayLabel               string
}

// V2GDayResult is one day's curve plus its arbitrage outcome.
type V2GDayResult struct {
	Curve     model.SlotCurve
	Arbitrage decimal.Decimal
}

// V2GDayCurve computes one day's load curve with per-range SOC tracking.
//
// V1G vehicles are dispatched with the global cheapest-first fill. V2G
// vehicles walk the day's ranges in temporal order under a steady-state
// assumption: they enter the first range at the SOC they left the last range
// with the previous day. A range whose arrival SOC exceeds its target sells
// the headroom at the most expensive slots of the range; a deficit is bought
// at the cheapest slots. Arbitrage is discharge revenue minus V2G charge
// cost and may be negative.
func (p *Planner) V2GDayCurve(in V2GDayParams, trace *model.Trace) V2GDayResult {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)
	hundred := decimal.NewFromInt(100)

	allSlots := p.buildSlots(in.Chargeable, in.Periods)

	v1gPower, v1gEnergy := p.greedyFill(allSlots, in.V1gEnergyDemand, in.V1gMaxEnergyPerSlot)

	if in.V2gVehicles <= 0 || len(in.Ranges) == 0 {
		curve := make(model.SlotCurve, slotsPerDay)
		for i := 0; i < slotsPerDay; i++ {
			curve[i] = model.SlotPoint{
				TimeSlot:           allSlots[i].time,
				ChargePowerKw:      v1gPower[i],
				DischargePowerKw:   decimal.Zero,
				ChargeEnergyKwh:    v1gEnergy[i],
				DischargeEnergyKwh: decimal.Zero,
			}
		}
		return V2GDayResult{Curve: curve, Arbitrage: decimal.Zero}
	}

	v2gChargePower := make([]decimal.Decimal, slotsPerDay)
	v2gDischargePower := make([]decimal.Decimal, slotsPerDay)
	v2gChargeEnergy := make([]decimal.Decimal, slotsPerDay)
	v2gDischargeEnergy := make([]decimal.Decimal, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		v2gChargePower[i] = decimal.Zero
		v2gDischargePower[i] = decimal.Zero
		v2gChargeEnergy[i] = decimal.Zero
		v2gDischargeEnergy[i] = decimal.Zero
	}

	vehicles := decimal.NewFromInt(int64(in.V2gVehicles))

	// Steady state: the day starts at the SOC the last range departed with.
	soc := in.Ranges[len(in.Ranges)-1].MinSoc
	totalDischargeRevenue := decimal.Zero
	totalChargeCost := decimal.Zero

	trace.Addf("  [%s] V2G per-range: %d ranges, initial SOC=%d%% (steady state from last range)",
		in.DayLabel, len(in.Ranges), soc)

	for _, rng := range in.Ranges {
		arrival := soc
		target := rng.MinSoc

		rangeSet := make(map[int]struct{})
		timegrid.AddSlotsInRange(rangeSet, rng.StartSlot, rng.EndSlot, slotsPerDay)
		inRange := func(s slotData) bool {
			_, ok := rangeSet[s.index]
			return ok
		}

		switch {
		case arrival > target:
			headroom := in.BatteryKwh.
				Mul(decimal.NewFromInt(int64(arrival - target))).
				DivRound(hundred, 4).
				Mul(vehicles)

			expensive := sortedByPrice(allSlots, inRange, true)
			remaining := headroom
			revenue := decimal.Zero
			used := 0
			for _, s := range expensive {
				if !remaining.IsPositive() {
					break
				}
				e := decimal.Min(remaining, in.V2gMaxDischargePerSlot)
				v2gDischargePower[s.index] = v2gDischargePower[s.index].Sub(in.V2gDischargePowerKw)
				v2gDischargeEnergy[s.index] = v2gDischargeEnergy[s.index].Sub(e)
				remaining = remaining.Sub(e)
				revenue = revenue.Add(e.Mul(s.price))
				used++
			}
			totalDischargeRevenue = totalDischargeRevenue.Add(revenue)
			trace.Addf("  [%s] Range %s~%s: V2G discharge %skWh in %d slots, revenue=%s (SOC %d%%->%d%%)",
				in.DayLabel, rng.Start, rng.End, headroom.Sub(remaining).Round(2), used,
				revenue.Round(4), arrival, target)

		case arrival < target:
			deficit := in.BatteryKwh.
				Mul(decimal.NewFromInt(int64(target - arrival))).
				DivRound(hundred, 4).
				Mul(vehicles)

			cheapest := sortedByPrice(allSlots, inRange, false)
			remaining := deficit
			cost := decimal.Zero
			for _, s := range cheapest {
				if !remaining.IsPositive() {
					break
				}
				e := decimal.Min(remaining, in.V2gMaxChargePerSlot)
				v2gChargePower[s.index] = v2gChargePower[s.index].Add(in.V2gChargePowerKw)
				v2gChargeEnergy[s.index] = v2gChargeEnergy[s.index].Add(e)
				remaining = remaining.Sub(e)
				cost = cost.Add(e.Mul(s.price))
			}
			totalChargeCost = totalChargeCost.Add(cost)
			trace.Addf("  [%s] Range %s~%s: V2G charge %skWh, cost=%s (SOC %d%%->%d%%)",
				in.DayLabel, rng.Start, rng.End, deficit.Round(2), cost.Round(4), arrival, target)

		default:
			trace.Addf("  [%s] Range %s~%s: V2G idle (SOC %d%% = target %d%%)",
				in.DayLabel, rng.Start, rng.End, arrival, target)
		}

		soc = target
	}

	arbitrage := totalDischargeRevenue.Sub(totalChargeCost).Round(2)
	trace.Addf("  [%s] V2G daily summary: revenue=%s - charge cost=%s = arbitrage %s",
		in.DayLabel, totalDischargeRevenue.Round(4), totalChargeCost.Round(4), arbitrage)

	curve := make(model.SlotCurve, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		curve[i] = model.SlotPoint{
			TimeSlot:           allSlots[i].time,
			ChargePowerKw:      v1gPower[i].Add(v2gChargePower[i]),
			DischargePowerKw:   v2gDischargePower[i],
			ChargeEnergyKwh:    v1gEnergy[i].Add(v2gChargeEnergy[i]),
			DischargeEnergyKwh: v2gDischargeEnergy[i],
		}
	}
	return V2GDayResult{Curve: curve, Arbitrage: arbitrage}
}
