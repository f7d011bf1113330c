// Package engine exposes the calculation entry points: load curve, storage
// sizing and V2G arbitrage. Each run is a pure function of its inputs plus
// the immutable Params, and attaches a human-readable step trace to the
// result.
package engine

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"station-sizing/internal/config"
	"station-sizing/internal/economics"
	"station-sizing/internal/model"
	"station-sizing/internal/schedule"
	"station-sizing/internal/sizing"
	"station-sizing/internal/timegrid"
)

type Engine struct {
	cfg     *config.Params
	planner *schedule.Planner
	log     zerolog.Logger
}

func New(cfg *config.Params, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		planner: schedule.NewPlanner(cfg),
		log:     log,
	}
}

// SizingRequest carries the per-run knobs of the sizing computation.
type SizingRequest struct {
	ChargeMode         string // "one" (2h duration) or "two" (4h)
	AnnualDecayPercent decimal.Decimal
	EnablePeakShaving  bool
	PeakShavingSubsidy decimal.Decimal
}

// SizingInputs are the project-bound inputs of the sizing computation.
type SizingInputs struct {
	Station  model.StationConfig
	Fleet    model.FleetConfig
	Schedule model.WeeklySchedule
	Tous     []model.TouPeriod
}

// V2GRequest is the standalone V2G computation input. A zero
// DischargePowerRatio selects the configured default derate.
type V2GRequest struct {
	Fleet               model.FleetConfig
	Schedule            model.WeeklySchedule
	Tous                []model.TouPeriod
	DischargePowerRatio decimal.Decimal
}

func (e *Engine) compilePeriods(tous []model.TouPeriod, trace *model.Trace) ([]timegrid.PricePeriod, error) {
	if len(tous) == 0 {
		return nil, NewInputError("touPrices", "TOU electricity prices are required")
	}
	for _, p := range tous {
		if err := p.Validate(); err != nil {
			return nil, inputErrorf("touPrices", "%v", err)
		}
	}
	periods, err := timegrid.CompilePeriods(tous)
	if err != nil {
		return nil, inputErrorf("touPrices", "%v", err)
	}

	interval := e.cfg.TimeSlotIntervalMinutes
	uncovered := 0
	slots := timegrid.SlotsPerDay(interval)
	for i := 0; i < slots; i++ {
		if !timegrid.Covered(i*interval, periods) {
			uncovered++
		}
	}
	if uncovered > 0 {
		trace.Addf("Warning: TOU tariff leaves %d of %d slots uncovered; the mean period price applies there", uncovered, slots)
	}
	return periods, nil
}

func (e *Engine) validateFleet(fleet model.FleetConfig) error {
	if err := fleet.Validate(); err != nil {
		return inputErrorf("fleet", "%v", err)
	}
	return nil
}

func (e *Engine) headerSteps(fleet model.FleetConfig, trace *model.Trace) decimal.Decimal {
	totalChargePower := e.planner.TotalChargingPower(fleet.Piles, fleet.VehicleCount)
	activePiles := fleet.VehicleCount
	if fleet.Piles.Total() < activePiles {
		activePiles = fleet.Piles.Total()
	}
	trace.Addf("Step 1: Vehicle count=%d, battery=%skWh, enableTimeControl=%v",
		fleet.VehicleCount, fleet.BatteryKwh, fleet.EnableTimeControl)
	trace.Addf("Step 2: Charging piles - fast:%d(%skW) slow:%d(%skW) ultra:%d(%skW), active piles=%d, total power=%skW",
		fleet.Piles.Fast, e.cfg.FastChargerPowerKw,
		fleet.Piles.Slow, e.cfg.SlowChargerPowerKw,
		fleet.Piles.UltraFast, e.cfg.UltraFastChargerPowerKw,
		activePiles, totalChargePower)
	return totalChargePower
}

// v2gPartition splits the fleet into the V2G share and the remaining V1G
// share and returns the three dispatch powers.
func (e *Engine) v2gPartition(fleet model.FleetConfig, derate decimal.Decimal) (v1gCharge, v2gCharge, v2gDischarge decimal.Decimal) {
	totalV2g := fleet.V2gPiles.Total()
	v1gVehicles := fleet.VehicleCount - totalV2g
	if v1gVehicles < 0 {
		v1gVehicles = 0
	}
	v2gCharge = e.planner.TotalChargingPower(fleet.V2gPiles, fleet.VehicleCount)
	v2gDischarge = e.planner.V2gDischargePower(fleet.V2gPiles, fleet.VehicleCount, derate)
	v1gCharge = e.planner.TotalChargingPower(fleet.Piles.Sub(fleet.V2gPiles), v1gVehicles)
	return v1gCharge, v2gCharge, v2gDischarge
}

// ComputeLoadCurve builds the weekly load curve for a fleet, using the V2G
// dispatch when any bidirectional pile is configured.
func (e *Engine) ComputeLoadCurve(fleet model.FleetConfig, weekly model.WeeklySchedule, tous []model.TouPeriod) (*model.LoadCurveResult, error) {
	trace := &model.Trace{}
	if err := e.validateFleet(fleet); err != nil {
		return nil, err
	}
	periods, err := e.compilePeriods(tous, trace)
	if err != nil {
		return nil, err
	}

	totalChargePower := e.headerSteps(fleet, trace)

	if fleet.V2gEnabled() {
		totalV2g := fleet.V2gPiles.Total()
		trace.Addf("Step 2-V2G: V2G piles - fast:%d slow:%d ultra:%d, total V2G piles=%d",
			fleet.V2gPiles.Fast, fleet.V2gPiles.Slow, fleet.V2gPiles.UltraFast, totalV2g)

		v1gCharge, v2gCharge, v2gDischarge := e.v2gPartition(fleet, decimal.Zero)

		week, err := e.planner.PlanWeekV2G(weekly, periods, fleet.VehicleCount, fleet.BatteryKwh,
			fleet.EnableTimeControl, v1gCharge, v2gCharge, v2gDischarge, totalV2g, trace)
		if err != nil {
			return nil, inputErrorf("weeklySchedule", "%v", err)
		}

		trace.Addf("Step 3: Load curve peak charge power = %skW", week.PeakPowerKw.Round(2))
		trace.Addf("Step 3a: Daily max energy consumption = %skWh", week.DailyMaxEnergyKwh)
		trace.Addf("Step 3b: V2G daily arbitrage revenue = %s", week.MaxDailyArbitrage)

		e.log.Info().Int("vehicles", fleet.VehicleCount).Bool("v2g", true).
			Str("peak_kw", week.PeakPowerKw.String()).Msg("load curve computed")

		return &model.LoadCurveResult{
			DailyCurves:             week.DailyCurves,
			Envelope:                week.Envelope,
			PeakPowerKw:             week.PeakPowerKw,
			DailyEnergyKwh:          week.DailyMaxEnergyKwh,
			DailyDischargeEnergyKwh: e.planner.MaxDailyDischargeEnergy(week.DailyCurves),
			PeakDischargePowerKw:    v2gDischarge,
			DailyArbitrageRevenue:   week.MaxDailyArbitrage,
			V2gEnabled:              true,
			Steps:                   trace.Steps,
		}, nil
	}

	week, err := e.planner.PlanWeek(weekly, periods, fleet.VehicleCount, fleet.BatteryKwh,
		fleet.EnableTimeControl, totalChargePower, trace)
	if err != nil {
		return nil, inputErrorf("weeklySchedule", "%v", err)
	}

	trace.Addf("Step 3: Load curve peak power P_all-load-max = %skW", week.PeakPowerKw.Round(2))
	trace.Addf("Step 3a: Daily max energy consumption = %skWh", week.DailyMaxEnergyKwh)

	e.log.Info().Int("vehicles", fleet.VehicleCount).Bool("v2g", false).
		Str("peak_kw", week.PeakPowerKw.String()).Msg("load curve computed")

	return &model.LoadCurveResult{
		DailyCurves:             week.DailyCurves,
		Envelope:                week.Envelope,
		PeakPowerKw:             week.PeakPowerKw,
		DailyEnergyKwh:          week.DailyMaxEnergyKwh,
		DailyDischargeEnergyKwh: decimal.Zero,
		PeakDischargePowerKw:    decimal.Zero,
		DailyArbitrageRevenue:   decimal.Zero,
		V2gEnabled:              false,
		Steps:                   trace.Steps,
	}, nil
}

// ComputeSizing runs the full sizing pipeline: V1G-only weekly load curve,
// transformer selection, ESS power/capacity rounding and the 20-year
// economic projection.
func (e *Engine) ComputeSizing(in SizingInputs, req SizingRequest) (*model.SizingResult, error) {
	trace := &model.Trace{}
	if err := in.Station.Validate(); err != nil {
		return nil, inputErrorf("station", "%v", err)
	}
	if err := e.validateFleet(in.Fleet); err != nil {
		return nil, err
	}
	periods, err := e.compilePeriods(in.Tous, trace)
	if err != nil {
		return nil, err
	}

	totalChargePower := e.headerSteps(in.Fleet, trace)
	trace.Addf("Step 2a: PV installed capacity = %skW", in.Station.PvPeakPowerKw.Round(2))

	week, err := e.planner.PlanWeek(in.Schedule, periods, in.Fleet.VehicleCount, in.Fleet.BatteryKwh,
		in.Fleet.EnableTimeControl, totalChargePower, trace)
	if err != nil {
		return nil, inputErrorf("weeklySchedule", "%v", err)
	}

	loadPeak := week.PeakPowerKw
	trace.Addf("Step 3: Load curve peak power P_all-load-max = %skW", loadPeak.Round(2))

	autoTransformer := false
	transformerKva := in.Station.TransformerKva
	if transformerKva.IsPositive() {
		trace.Addf("Step 4: Transformer capacity (user-specified) = %skVA", transformerKva)
	} else {
		transformerKva = sizing.SelectTransformer(loadPeak, in.Station.Country, e.cfg)
		autoTransformer = true
		trace.Addf("Step 4: Transformer auto-selected = %skVA (%s standard), based on peak load %skW",
			transformerKva, in.Station.Country, loadPeak.Round(2))
	}

	essMaxPower := sizing.EssMaxPower(loadPeak, e.cfg)
	trace.Addf("Step 5: ESS max power = P_all-load-max(%s) x coefficient(%s) = %skW",
		loadPeak.Round(2), e.cfg.EmpiricalCoefficient, essMaxPower)

	essRatedPower := sizing.EssRatedPower(essMaxPower, in.Station.PvPeakPowerKw)
	trace.Addf("Step 6: ESS rated power = ESS max(%s) - PV peak(%s) = %skW",
		essMaxPower, in.Station.PvPeakPowerKw.Round(2), essRatedPower)

	warning := sizing.ValidateTransformer(essRatedPower, transformerKva)
	if warning != "" {
		trace.Addf("Step 7: WARNING - %s", warning)
	} else {
		trace.Addf("Step 7: Validation passed - ESS rated power(%s) <= transformer capacity(%s)",
			essRatedPower, transformerKva)
	}

	chargeDuration := decimal.NewFromInt(2)
	modeLabel := "one charge one discharge"
	if req.ChargeMode == "two" {
		chargeDuration = decimal.NewFromInt(4)
		modeLabel = "two charges two discharges"
	}
	essCalculatedCapacity := essRatedPower.Mul(chargeDuration).Round(2)
	trace.Addf("Step 8: Calculated ESS capacity = rated power(%s) x duration(%sh) = %skWh (mode: %s)",
		essRatedPower, chargeDuration, essCalculatedCapacity, modeLabel)

	ess := sizing.Size(essRatedPower, essCalculatedCapacity, in.Station.Country, e.cfg)
	trace.Addf("Step 8a: Standard ESS model selected (%s): %skW/%skWh x %d units = %skW / %skWh",
		in.Station.Country, ess.ModelPowerKw, ess.ModelCapacityKwh, ess.Units,
		ess.RatedPowerKw, ess.CapacityKwh)

	yearly := economics.Project(economics.Inputs{
		CapacityKwh:        ess.CapacityKwh,
		Tous:               in.Tous,
		AnnualDecayPercent: req.AnnualDecayPercent,
		EnablePeakShaving:  req.EnablePeakShaving,
		PeakShavingSubsidy: req.PeakShavingSubsidy,
		ChargeMode:         req.ChargeMode,
	}, e.cfg)
	trace.Addf("Step 10: Economic indicators calculated for 20 years, initial investment = %s yuan",
		ess.CapacityKwh.Mul(e.cfg.EssUnitCostYuanPerKwh))

	e.log.Info().Str("country", in.Station.Country).
		Str("ess_power_kw", ess.RatedPowerKw.String()).
		Str("ess_capacity_kwh", ess.CapacityKwh.String()).
		Int("units", ess.Units).Msg("sizing computed")

	return &model.SizingResult{
		Ess:                       ess,
		LoadPeakPowerKw:           loadPeak,
		PvPeakPowerKw:             in.Station.PvPeakPowerKw,
		TransformerCapacityKva:    transformerKva,
		TransformerAutoCalculated: autoTransformer,
		Warning:                   warning,
		LoadCurve:                 week.Envelope,
		YearlyEconomics:           yearly,
		Steps:                     trace.Steps,
	}, nil
}

// ComputeV2G runs the standalone V2G computation: weekly curves with
// bidirectional dispatch, peaks, arbitrage aggregates and the pile
// suggestion.
func (e *Engine) ComputeV2G(req V2GRequest) (*model.V2GResult, error) {
	trace := &model.Trace{}
	if err := e.validateFleet(req.Fleet); err != nil {
		return nil, err
	}
	periods, err := e.compilePeriods(req.Tous, trace)
	if err != nil {
		return nil, err
	}

	fleet := req.Fleet
	suggested := e.planner.SuggestPiles(fleet.VehicleCount)
	trace.Addf("Pile suggestion: fast=%d, slow=%d, ultra=%d (for %d vehicles)",
		suggested.Fast, suggested.Slow, suggested.UltraFast, fleet.VehicleCount)

	derate := req.DischargePowerRatio
	if derate.IsZero() {
		derate = e.cfg.V2gDischargeDerate
	}

	totalChargePower := e.planner.TotalChargingPower(fleet.Piles, fleet.VehicleCount)
	trace.Addf("Total charging power: %skW, discharge power ratio: %s%%",
		totalChargePower, derate.Mul(decimal.NewFromInt(100)))

	totalV2g := fleet.V2gPiles.Total()
	var week schedule.WeekResult
	peakDischarge := decimal.Zero

	if totalV2g > 0 {
		v1gCharge, v2gCharge, v2gDischarge := e.v2gPartition(fleet, derate)
		trace.Addf("V2G enabled: V1G charge=%skW, V2G charge=%skW, V2G discharge=%skW (derate=%s%%)",
			v1gCharge, v2gCharge, v2gDischarge, derate.Mul(decimal.NewFromInt(100)))

		week, err = e.planner.PlanWeekV2G(req.Schedule, periods, fleet.VehicleCount, fleet.BatteryKwh,
			fleet.EnableTimeControl, v1gCharge, v2gCharge, v2gDischarge, totalV2g, trace)
		if err != nil {
			return nil, inputErrorf("weeklySchedule", "%v", err)
		}
		// Rated pile capability, not the envelope-derived slot usage.
		peakDischarge = v2gDischarge
	} else {
		week, err = e.planner.PlanWeek(req.Schedule, periods, fleet.VehicleCount, fleet.BatteryKwh,
			fleet.EnableTimeControl, totalChargePower, trace)
		if err != nil {
			return nil, inputErrorf("weeklySchedule", "%v", err)
		}
	}

	weeklyArbitrage := week.WeeklyArbitrage.Round(2)
	yearlyArbitrage := weeklyArbitrage.Mul(decimal.NewFromInt(52)).Round(2)
	trace.Addf("Peak discharge power (rated) = %skW (pile capability x derate)", peakDischarge)
	trace.Addf("Weekly arbitrage = %s, Yearly = %s", weeklyArbitrage, yearlyArbitrage)

	e.log.Info().Int("vehicles", fleet.VehicleCount).Int("v2g_piles", totalV2g).
		Str("weekly_arbitrage", weeklyArbitrage.String()).Msg("v2g computed")

	return &model.V2GResult{
		SuggestedPiles:             suggested,
		DailyCurves:                week.DailyCurves,
		Envelope:                   week.Envelope,
		PeakChargingPowerKw:        week.PeakPowerKw,
		PeakDischargePowerKw:       peakDischarge,
		DailyMaxChargingEnergyKwh:  week.DailyMaxEnergyKwh,
		DailyMaxDischargeEnergyKwh: e.planner.MaxDailyDischargeEnergy(week.DailyCurves),
		DailyArbitrageRevenue:      week.MaxDailyArbitrage,
		WeeklyArbitrageRevenue:     weeklyArbitrage,
		YearlyArbitrageRevenue:     yearlyArbitrage,
		DischargePowerRatio:        derate,
		Steps:                      trace.Steps,
	}, nil
}
