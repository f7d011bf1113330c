package schedule

import (
	"sort"

	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
	"station-sizing/internal/timegrid"
)

// slotData is one grid slot annotated for greedy dispatch.
type slotData struct {
	index      int
	time       string
	price      decimal.Decimal
	chargeable bool
}

// buildSlots annotates every slot of the day with its label, tariff price
// and chargeability.
func (p *Planner) buildSlots(chargeable map[int]struct{}, periods []timegrid.PricePeriod) []slotData {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)
	slots := make([]slotData, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		_, ok := chargeable[i]
		slots[i] = slotData{
			index:      i,
			time:       timegrid.SlotToTime(i, interval),
			price:      timegrid.PriceForSlot(i, interval, periods),
			chargeable: ok,
		}
	}
	return slots
}

// sortedByPrice returns the subset of slots passing keep, ordered by price.
// The sort is stable, so equal prices keep ascending slot order and the
// dispatch stays deterministic.
func sortedByPrice(slots []slotData, keep func(slotData) bool, descending bool) []slotData {
	out := make([]slotData, 0, len(slots))
	for _, s := range slots {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].price.GreaterThan(out[j].price)
		}
		return out[i].price.LessThan(out[j].price)
	})
	return out
}

// greedyFill runs the cheapest-first dispatch over the chargeable slots of
// the day and returns per-slot rated power and actual energy arrays.
func (p *Planner) greedyFill(slots []slotData, demandKwh, maxEnergyPerSlot decimal.Decimal) (power, energy []decimal.Decimal) {
	intervalHours := p.Cfg.IntervalHours()
	cheapest := sortedByPrice(slots, func(s slotData) bool { return s.chargeable }, false)

	ratedPower := decimal.Zero
	if maxEnergyPerSlot.IsPositive() {
		ratedPower = maxEnergyPerSlot.DivRound(intervalHours, 2)
	}

	power = make([]decimal.Decimal, len(slots))
	energy = make([]decimal.Decimal, len(slots))
	for i := range power {
		power[i] = decimal.Zero
		energy[i] = decimal.Zero
	}

	remaining := demandKwh
	for _, s := range cheapest {
		if !remaining.IsPositive() {
			break
		}
		e := decimal.Min(remaining, maxEnergyPerSlot)
		power[s.index] = ratedPower
		energy[s.index] = e
		remaining = remaining.Sub(e)
	}
	return power, energy
}

// V1GDayCurve dispatches one day's charging demand greedily: the chargeable
// slots are filled cheapest-first, each up to maxEnergyPerSlot, until the
// demand is exhausted. Filled slots report the rated pile power; the final
// slot may carry partial energy at rated power.
func (p *Planner) V1GDayCurve(
	chargeable map[int]struct{},
	periods []timegrid.PricePeriod,
	dailyEnergyKwh decimal.Decimal,
	maxEnergyPerSlot decimal.Decimal,
) model.SlotCurve {
	interval := p.Cfg.TimeSlotIntervalMinutes
	slotsPerDay := timegrid.SlotsPerDay(interval)

	slots := p.buildSlots(chargeable, periods)
	power, energy := p.greedyFill(slots, dailyEnergyKwh, maxEnergyPerSlot)

	curve := make(model.SlotCurve, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		curve[i] = model.SlotPoint{
			TimeSlot:           slots[i].time,
			ChargePowerKw:      power[i],
			DischargePowerKw:   decimal.Zero,
			ChargeEnergyKwh:    energy[i],
			DischargeEnergyKwh: decimal.Zero,
		}
	}
	return curve
}
