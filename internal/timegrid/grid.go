// Package timegrid maps wall-clock times onto the 15-minute slot grid used
// by the load-curve schedulers and resolves TOU tariff prices per slot.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
)

const MinutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Surrounding spaces are ignored and one-digit hour or minute fields are
// accepted. "24:00" is accepted as an exclusive day-end marker (1440).
// Anything else malformed is rejected rather than defaulted.
func ParseClock(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

func SlotsPerDay(intervalMinutes int) int {
	return MinutesPerDay / intervalMinutes
}

// TimeToSlot converts "HH:MM" to its slot index on the given grid.
func TimeToSlot(clock string, intervalMinutes int) (int, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	return minutes / intervalMinutes, nil
}

// SlotToTime renders a slot index as a zero-padded "HH:MM" label.
func SlotToTime(slot, intervalMinutes int) string {
	total := slot * intervalMinutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// AddSlotsInRange adds every index of [from, to] to the set, inclusive on
// both ends. from > to wraps past midnight. Indices >= total are dropped,
// which makes a "24:00" end behave as the last slot of the day.
func AddSlotsInRange(set map[int]struct{}, from, to, total int) {
	if from <= to {
		for i := from; i <= to && i < total; i++ {
			set[i] = struct{}{}
		}
		return
	}
	for i := from; i < total; i++ {
		set[i] = struct{}{}
	}
	for i := 0; i <= to && i < total; i++ {
		set[i] = struct{}{}
	}
}

// PricePeriod is a tariff period with its clock ranges resolved to minute
// pairs, ready for per-slot lookups.
type PricePeriod struct {
	Type   model.PeriodType
	Ranges [][2]int
	Price  decimal.Decimal
}

// CompilePeriods parses every period's clock ranges up front so the
// schedulers never touch time strings in their inner loops.
func CompilePeriods(periods []model.TouPeriod) ([]PricePeriod, error) {
	compiled := make([]PricePeriod, 0, len(periods))
	for _, p := range periods {
		cp := PricePeriod{Type: p.PeriodType, Price: p.Price}
		for _, r := range p.TimeRanges {
			start, err := ParseClock(r.Start)
			if err != nil {
				return nil, fmt.Errorf("tariff period %s: %w", p.PeriodType, err)
			}
			end, err := ParseClock(r.End)
			if err != nil {
				return nil, fmt.Errorf("tariff period %s: %w", p.PeriodType, err)
			}
			cp.Ranges = append(cp.Ranges, [2]int{start, end})
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// PriceForMinute resolves the tariff price at a minute-of-day. Periods are
// scanned in order and the first containing range wins. A non-wrapping range
// matches [start, end); a wrapping one matches minute >= start || minute <
// end. When nothing matches, the mean of all period prices is returned so an
// incomplete tariff still yields a usable curve; an empty tariff yields the
// 0.5 sentinel.
func PriceForMinute(minute int, periods []PricePeriod) decimal.Decimal {
	for _, p := range periods {
		for _, r := range p.Ranges {
			if r[0] <= r[1] {
				if minute >= r[0] && minute < r[1] {
					return p.Price
				}
			} else if minute >= r[0] || minute < r[1] {
				return p.Price
			}
		}
	}
	if len(periods) > 0 {
		sum := decimal.Zero
		for _, p := range periods {
			sum = sum.Add(p.Price)
		}
		return sum.DivRound(decimal.NewFromInt(int64(len(periods))), 4)
	}
	return decimal.NewFromFloat(0.5)
}

// PriceForSlot resolves the tariff price for a slot index.
func PriceForSlot(slot, intervalMinutes int, periods []PricePeriod) decimal.Decimal {
	return PriceForMinute(slot*intervalMinutes, periods)
}

// Covered reports whether the minute is inside any period range, i.e.
// whether PriceForMinute resolved a real price rather than the fallback.
func Covered(minute int, periods []PricePeriod) bool {
	for _, p := range periods {
		for _, r := range p.Ranges {
			if r[0] <= r[1] {
				if minute >= r[0] && minute < r[1] {
					return true
				}
			} else if minute >= r[0] || minute < r[1] {
				return true
			}
		}
	}
	return false
}

// ZeroCurve builds a full-day curve of zero-valued points with slot labels.
func ZeroCurve(intervalMinutes int) model.SlotCurve {
	slots := SlotsPerDay(intervalMinutes)
	curve := make(model.SlotCurve, slots)
	for i := 0; i < slots; i++ {
		curve[i] = model.SlotPoint{
			TimeSlot:           SlotToTime(i, intervalMinutes),
			ChargePowerKw:      decimal.Zero,
			DischargePowerKw:   decimal.Zero,
			ChargeEnergyKwh:    decimal.Zero,
			DischargeEnergyKwh: decimal.Zero,
		}
	}
	return curve
}
