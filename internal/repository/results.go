package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// CalculationResult stores a computation's JSON payload for later retrieval
// and report generation.
type CalculationResult struct {
	ID         int64
	ProjectID  int64
	ResultType string // "sizing" or "v2g"
	Payload    string
	CreatedAt  time.Time
}

type ResultRepository struct {
	db *DB
}

func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Save(ctx context.Context, res *CalculationResult) error {
	query := `
		INSERT INTO calculation_results (project_id, result_type, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.Pool.QueryRow(ctx, query, res.ProjectID, res.ResultType, res.Payload).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Latest returns the most recent result of a type for a project.
func (r *ResultRepository) Latest(ctx context.Context, projectID int64, resultType string) (*CalculationResult, error) {
	query := `
		SELECT id, project_id, result_type, payload, created_at
		FROM calculation_results
		WHERE project_id = $1 AND result_type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var res CalculationResult
	err := r.db.Pool.QueryRow(ctx, query, projectID, resultType).
		Scan(&res.ID, &res.ProjectID, &res.ResultType, &res.Payload, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select result: %w", err)
	}
	return &res, nil
}
