package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PvConfig is the persisted PV installation of a project.
type PvConfig struct {
	ID                  int64
	ProjectID           int64
	InstalledCapacityKw decimal.Decimal
}

type PvConfigRepository struct {
	db *DB
}

func NewPvConfigRepository(db *DB) *PvConfigRepository {
	return &PvConfigRepository{db: db}
}

// Upsert writes the project's PV config, replacing any existing row.
func (r *PvConfigRepository) Upsert(ctx context.Context, c *PvConfig) error {
	query := `
		INSERT INTO pv_system_configs (project_id, installed_capacity_kw)
		VALUES ($1, $2)
		ON CONFLICT (project_id) DO UPDATE SET installed_capacity_kw = EXCLUDED.installed_capacity_kw
		RETURNING id
	`
	if err := r.db.Pool.QueryRow(ctx, query, c.ProjectID, c.InstalledCapacityKw).Scan(&c.ID); err != nil {
		return fmt.Errorf("upsert pv config: %w", err)
	}
	return nil
}

func (r *PvConfigRepository) GetByProjectID(ctx context.Context, projectID int64) (*PvConfig, error) {
	query := `
		SELECT id, project_id, installed_capacity_kw
		FROM pv_system_configs WHERE project_id = $1
	`
	var c PvConfig
	err := r.db.Pool.QueryRow(ctx, query, projectID).
		Scan(&c.ID, &c.ProjectID, &c.InstalledCapacityKw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pv config: %w", err)
	}
	return &c, nil
}
