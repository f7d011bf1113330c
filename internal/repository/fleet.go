package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
)

// FleetConfig is the persisted fleet/pile configuration of a project.
// WeeklySchedule and SpecialDates hold the JSON blobs as stored.
type FleetConfig struct {
	ID                   int64
	ProjectID            int64
	VehicleCount         int
	BatteryCapacityKwh   decimal.Decimal
	EnableTimeControl    bool
	WeeklySchedule       string
	SpecialDates         string
	FastChargers         int
	SlowChargers         int
	UltraFastChargers    int
	FastChargersV2g      int
	SlowChargersV2g      int
	UltraFastChargersV2g int
}

// ToModel decodes the record into core value objects. Broken JSON blobs
// degrade to an empty schedule with a warning.
func (c *FleetConfig) ToModel(log zerolog.Logger) (model.FleetConfig, model.WeeklySchedule) {
	fleet := model.FleetConfig{
		VehicleCount:      c.VehicleCount,
		BatteryKwh:        c.BatteryCapacityKwh,
		EnableTimeControl: c.EnableTimeControl,
		Piles: model.PileCounts{
			Fast:      c.FastChargers,
			Slow:      c.SlowChargers,
			UltraFast: c.UltraFastChargers,
		},
		V2gPiles: model.PileCounts{
			Fast:      c.FastChargersV2g,
			Slow:      c.SlowChargersV2g,
			UltraFast: c.UltraFastChargersV2g,
		},
	}
	return fleet, DecodeWeeklySchedule(c.WeeklySchedule, log)
}

type FleetConfigRepository struct {
	db *DB
}

func NewFleetConfigRepository(db *DB) *FleetConfigRepository {
	return &FleetConfigRepository{db: db}
}

func (r *FleetConfigRepository) Upsert(ctx context.Context, c *FleetConfig) error {
	query := `
		INSERT INTO fleet_configs (
			project_id, vehicle_count, battery_capacity_kwh, enable_time_control,
			weekly_schedule, special_dates,
			fast_chargers, slow_chargers, ultra_fast_chargers,
			fast_chargers_v2g, slow_chargers_v2g, ultra_fast_chargers_v2g
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (project_id) DO UPDATE SET
			vehicle_count = EXCLUDED.vehicle_count,
			battery_capacity_kwh = EXCLUDED.battery_capacity_kwh,
			enable_time_control = EXCLUDED.enable_time_control,
			weekly_schedule = EXCLUDED.weekly_schedule,
			special_dates = EXCLUDED.special_dates,
			fast_chargers = EXCLUDED.fast_chargers,
			slow_chargers = EXCLUDED.slow_chargers,
			ultra_fast_chargers = EXCLUDED.ultra_fast_chargers,
			fast_chargers_v2g = EXCLUDED.fast_chargers_v2g,
			slow_chargers_v2g = EXCLUDED.slow_chargers_v2g,
			ultra_fast_chargers_v2g = EXCLUDED.ultra_fast_chargers_v2g
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		c.ProjectID, c.VehicleCount, c.BatteryCapacityKwh, c.EnableTimeControl,
		c.WeeklySchedule, c.SpecialDates,
		c.FastChargers, c.SlowChargers, c.UltraFastChargers,
		c.FastChargersV2g, c.SlowChargersV2g, c.UltraFastChargersV2g,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upsert fleet config: %w", err)
	}
	return nil
}

func (r *FleetConfigRepository) GetByProjectID(ctx context.Context, projectID int64) (*FleetConfig, error) {
	query := `
		SELECT id, project_id, vehicle_count, battery_capacity_kwh, enable_time_control,
			weekly_schedule, special_dates,
			fast_chargers, slow_chargers, ultra_fast_chargers,
			fast_chargers_v2g, slow_chargers_v2g, ultra_fast_chargers_v2g
		FROM fleet_configs WHERE project_id = $1
	`
	var c FleetConfig
	err := r.db.Pool.QueryRow(ctx, query, projectID).Scan(
		&c.ID, &c.ProjectID, &c.VehicleCount, &c.BatteryCapacityKwh, &c.EnableTimeControl,
		&c.WeeklySchedule, &c.SpecialDates,
		&c.FastChargers, &c.SlowChargers, &c.UltraFastChargers,
		&c.FastChargersV2g, &c.SlowChargersV2g, &c.UltraFastChargersV2g,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select fleet config: %w", err)
	}
	return &c, nil
}
