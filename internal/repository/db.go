// Package repository persists projects, station/fleet configuration, TOU
// prices and calculation results in PostgreSQL. Schedule and tariff time
// ranges are stored as JSON blobs and decoded into core value objects at
// this boundary; the calculation core never touches JSON.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateProjects,
		migrationCreatePvConfigs,
		migrationCreateFleetConfigs,
		migrationCreatePrices,
		migrationCreateResults,
	}
	for i, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

const migrationCreateProjects = `
CREATE TABLE IF NOT EXISTS projects (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	transformer_capacity_kva NUMERIC(12,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const migrationCreatePvConfigs = `
CREATE TABLE IF NOT EXISTS pv_system_configs (
	id BIGSERIAL PRIMARY KEY,
	project_id BIGINT NOT NULL UNIQUE REFERENCES projects(id) ON DELETE CASCADE,
	installed_capacity_kw NUMERIC(12,2) NOT NULL DEFAULT 0
)`

const migrationCreateFleetConfigs = `
CREATE TABLE IF NOT EXISTS fleet_configs (
	id BIGSERIAL PRIMARY KEY,
	project_id BIGINT NOT NULL UNIQUE REFERENCES projects(id) ON DELETE CASCADE,
	vehicle_count INT NOT NULL DEFAULT 0,
	battery_capacity_kwh NUMERIC(12,2) NOT NULL DEFAULT 0,
	enable_time_control BOOLEAN NOT NULL DEFAULT TRUE,
	weekly_schedule TEXT NOT NULL DEFAULT '[]',
	special_dates TEXT NOT NULL DEFAULT '[]',
	fast_chargers INT NOT NULL DEFAULT 0,
	slow_chargers INT NOT NULL DEFAULT 0,
	ultra_fast_chargers INT NOT NULL DEFAULT 0,
	fast_chargers_v2g INT NOT NULL DEFAULT 0,
	slow_chargers_v2g INT NOT NULL DEFAULT 0,
	ultra_fast_chargers_v2g INT NOT NULL DEFAULT 0
)`

const migrationCreatePrices = `
CREATE TABLE IF NOT EXISTS project_electricity_prices (
	id BIGSERIAL PRIMARY KEY,
	project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	period_type TEXT NOT NULL,
	time_ranges TEXT NOT NULL DEFAULT '[]',
	price NUMERIC(12,4) NOT NULL,
	country TEXT NOT NULL DEFAULT 'CN'
)`

const migrationCreateResults = `
CREATE TABLE IF NOT EXISTS calculation_results (
	id BIGSERIAL PRIMARY KEY,
	project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	result_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
