package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	apimodels "station-sizing/internal/api/models"
	"station-sizing/internal/config"
	"station-sizing/internal/engine"
	"station-sizing/internal/logging"
	"station-sizing/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "sizing":
		cmdSizing(os.Args[2:])
	case "v2g":
		cmdV2g(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli sizing --scenario examples/scenario.yaml [--config params.yaml]")
	fmt.Println("  cli v2g --scenario examples/scenario.yaml [--config params.yaml]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - sizing prints the ESS recommendation plus the 20-year projection")
	fmt.Println("  - v2g prints per-day curves, envelope and arbitrage aggregates")
}

// scenarioFile is the YAML input of both subcommands.
type scenarioFile struct {
	Station struct {
		PvPeakPowerKw  float64 `yaml:"pv_peak_power_kw"`
		TransformerKva float64 `yaml:"transformer_kva"`
		Country        string  `yaml:"country"`
	} `yaml:"station"`
	Fleet struct {
		VehicleCount      int     `yaml:"vehicle_count"`
		BatteryKwh        float64 `yaml:"battery_kwh"`
		EnableTimeControl bool    `yaml:"enable_time_control"`
		Piles             struct {
			Fast      int `yaml:"fast"`
			Slow      int `yaml:"slow"`
			UltraFast int `yaml:"ultra_fast"`
		} `yaml:"piles"`
		V2gPiles struct {
			Fast      int `yaml:"fast"`
			Slow      int `yaml:"slow"`
			UltraFast int `yaml:"ultra_fast"`
		} `yaml:"v2g_piles"`
	} `yaml:"fleet"`
	Schedule []struct {
		Day       string `yaml:"day"`
		Operating bool   `yaml:"operating"`
		Ranges    []struct {
			Start  string `yaml:"start"`
			End    string `yaml:"end"`
			MinSoc int    `yaml:"min_soc"`
		} `yaml:"ranges"`
	} `yaml:"schedule"`
	Tou []struct {
		PeriodType string  `yaml:"period_type"`
		Price      float64 `yaml:"price"`
		Ranges     []struct {
			Start string `yaml:"start"`
			End   string `yaml:"end"`
		} `yaml:"ranges"`
	} `yaml:"tou"`
	Request struct {
		ChargeMode          string  `yaml:"charge_mode"`
		AnnualDecayPercent  float64 `yaml:"annual_decay_percent"`
		EnablePeakShaving   bool    `yaml:"enable_peak_shaving"`
		PeakShavingSubsidy  float64 `yaml:"peak_shaving_subsidy"`
		DischargePowerRatio float64 `yaml:"discharge_power_ratio"`
	} `yaml:"request"`
}

func loadScenario(path string) (*scenarioFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s scenarioFile
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *scenarioFile) station() model.StationConfig {
	country := s.Station.Country
	if country == "" {
		country = "CN"
	}
	return model.StationConfig{
		PvPeakPowerKw:  decimal.NewFromFloat(s.Station.PvPeakPowerKw),
		TransformerKva: decimal.NewFromFloat(s.Station.TransformerKva),
		Country:        country,
	}
}

func (s *scenarioFile) fleet() model.FleetConfig {
	return model.FleetConfig{
		VehicleCount:      s.Fleet.VehicleCount,
		BatteryKwh:        decimal.NewFromFloat(s.Fleet.BatteryKwh),
		EnableTimeControl: s.Fleet.EnableTimeControl,
		Piles: model.PileCounts{
			Fast:      s.Fleet.Piles.Fast,
			Slow:      s.Fleet.Piles.Slow,
			UltraFast: s.Fleet.Piles.UltraFast,
		},
		V2gPiles: model.PileCounts{
			Fast:      s.Fleet.V2gPiles.Fast,
			Slow:      s.Fleet.V2gPiles.Slow,
			UltraFast: s.Fleet.V2gPiles.UltraFast,
		},
	}
}

func (s *scenarioFile) weekly() model.WeeklySchedule {
	out := make(model.WeeklySchedule, 0, len(s.Schedule))
	for _, d := range s.Schedule {
		ranges := make([]model.TimeRange, 0, len(d.Ranges))
		for _, r := range d.Ranges {
			ranges = append(ranges, model.TimeRange{Start: r.Start, End: r.End, MinSoc: r.MinSoc})
		}
		out = append(out, model.DaySchedule{
			Day:              d.Day,
			Operating:        d.Operating,
			ChargeableRanges: ranges,
		})
	}
	return out
}

func (s *scenarioFile) tous() []model.TouPeriod {
	out := make([]model.TouPeriod, 0, len(s.Tou))
	for _, p := range s.Tou {
		ranges := make([]model.ClockRange, 0, len(p.Ranges))
		for _, r := range p.Ranges {
			ranges = append(ranges, model.ClockRange{Start: r.Start, End: r.End})
		}
		out = append(out, model.TouPeriod{
			PeriodType: model.PeriodType(p.PeriodType),
			TimeRanges: ranges,
			Price:      decimal.NewFromFloat(p.Price),
		})
	}
	return out
}

func buildEngine(configPath string) *engine.Engine {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	return engine.New(cfg, logging.New("cli"))
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func cmdSizing(args []string) {
	fs := flag.NewFlagSet("sizing", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "Path to scenario YAML")
	configPath := fs.String("config", "", "Optional parameter overlay YAML")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}
	s, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
		os.Exit(1)
	}

	eng := buildEngine(*configPath)
	result, err := eng.ComputeSizing(engine.SizingInputs{
		Station:  s.station(),
		Fleet:    s.fleet(),
		Schedule: s.weekly(),
		Tous:     s.tous(),
	}, engine.SizingRequest{
		ChargeMode:         s.Request.ChargeMode,
		AnnualDecayPercent: decimal.NewFromFloat(s.Request.AnnualDecayPercent),
		EnablePeakShaving:  s.Request.EnablePeakShaving,
		PeakShavingSubsidy: decimal.NewFromFloat(s.Request.PeakShavingSubsidy),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sizing: %v\n", err)
		os.Exit(1)
	}
	printJSON(apimodels.FromSizingResult(result))
}

func cmdV2g(args []string) {
	fs := flag.NewFlagSet("v2g", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "Path to scenario YAML")
	configPath := fs.String("config", "", "Optional parameter overlay YAML")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}
	s, err := loadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scenario: %v\n", err)
		os.Exit(1)
	}

	eng := buildEngine(*configPath)
	result, err := eng.ComputeV2G(engine.V2GRequest{
		Fleet:               s.fleet(),
		Schedule:            s.weekly(),
		Tous:                s.tous(),
		DischargePowerRatio: decimal.NewFromFloat(s.Request.DischargePowerRatio),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "v2g: %v\n", err)
		os.Exit(1)
	}
	printJSON(apimodels.FromV2GResult(result))
}
