package repository

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"station-sizing/internal/model"
)

// Persisted JSON shapes. Field names are part of the stored format and the
// client API; keep them stable.

type timeRangeJSON struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	MinSoc int    `json:"minSoc,omitempty"`
}

type dayScheduleJSON struct {
	Day              string          `json:"day"`
	IsOperating      bool            `json:"isOperating"`
	ChargeableRanges []timeRangeJSON `json:"chargeableRanges"`
	DepartureCount   int             `json:"departureCount"`
}

type specialDateJSON struct {
	Date             string          `json:"date"`
	ChargeableRanges []timeRangeJSON `json:"chargeableRanges"`
	DepartureCount   int             `json:"departureCount"`
}

// DecodeWeeklySchedule parses the persisted schedule blob. A broken blob
// degrades to an empty schedule with a warning so one bad row cannot take
// the service down.
func DecodeWeeklySchedule(blob string, log zerolog.Logger) model.WeeklySchedule {
	if blob == "" {
		return nil
	}
	var days []dayScheduleJSON
	if err := json.Unmarshal([]byte(blob), &days); err != nil {
		log.Warn().Err(err).Msg("failed to parse weekly schedule, treating as empty")
		return nil
	}
	out := make(model.WeeklySchedule, 0, len(days))
	for _, d := range days {
		out = append(out, model.DaySchedule{
			Day:              d.Day,
			Operating:        d.IsOperating,
			ChargeableRanges: toModelRanges(d.ChargeableRanges),
			DepartureCount:   d.DepartureCount,
		})
	}
	return out
}

func EncodeWeeklySchedule(ws model.WeeklySchedule) (string, error) {
	days := make([]dayScheduleJSON, 0, len(ws))
	for _, d := range ws {
		days = append(days, dayScheduleJSON{
			Day:              d.Day,
			IsOperating:      d.Operating,
			ChargeableRanges: fromModelRanges(d.ChargeableRanges),
			DepartureCount:   d.DepartureCount,
		})
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode weekly schedule: %w", err)
	}
	return string(raw), nil
}

// DecodeSpecialDates parses the persisted special-date blob, degrading to
// empty on failure like the schedule.
func DecodeSpecialDates(blob string, log zerolog.Logger) []model.SpecialDate {
	if blob == "" {
		return nil
	}
	var dates []specialDateJSON
	if err := json.Unmarshal([]byte(blob), &dates); err != nil {
		log.Warn().Err(err).Msg("failed to parse special dates, treating as empty")
		return nil
	}
	out := make([]model.SpecialDate, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.SpecialDate{
			Date:             d.Date,
			ChargeableRanges: toModelRanges(d.ChargeableRanges),
			DepartureCount:   d.DepartureCount,
		})
	}
	return out
}

func EncodeSpecialDates(dates []model.SpecialDate) (string, error) {
	out := make([]specialDateJSON, 0, len(dates))
	for _, d := range dates {
		out = append(out, specialDateJSON{
			Date:             d.Date,
			ChargeableRanges: fromModelRanges(d.ChargeableRanges),
			DepartureCount:   d.DepartureCount,
		})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode special dates: %w", err)
	}
	return string(raw), nil
}

// DecodeClockRanges parses a tariff period's time-range blob.
func DecodeClockRanges(blob string, log zerolog.Logger) []model.ClockRange {
	if blob == "" {
		return nil
	}
	var ranges []timeRangeJSON
	if err := json.Unmarshal([]byte(blob), &ranges); err != nil {
		log.Warn().Err(err).Msg("failed to parse tariff time ranges, treating as empty")
		return nil
	}
	out := make([]model.ClockRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Start == "" || r.End == "" {
			continue
		}
		out = append(out, model.ClockRange{Start: r.Start, End: r.End})
	}
	return out
}

func EncodeClockRanges(ranges []model.ClockRange) (string, error) {
	out := make([]timeRangeJSON, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, timeRangeJSON{Start: r.Start, End: r.End})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode time ranges: %w", err)
	}
	return string(raw), nil
}

func toModelRanges(in []timeRangeJSON) []model.TimeRange {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.TimeRange, 0, len(in))
	for _, r := range in {
		out = append(out, model.TimeRange{Start: r.Start, End: r.End, MinSoc: r.MinSoc})
	}
	return out
}

func fromModelRanges(in []model.TimeRange) []timeRangeJSON {
	if len(in) == 0 {
		return nil
	}
	out := make([]timeRangeJSON, 0, len(in))
	for _, r := range in {
		out = append(out, timeRangeJSON{Start: r.Start, End: r.End, MinSoc: r.MinSoc})
	}
	return out
}
