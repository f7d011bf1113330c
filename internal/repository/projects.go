package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Project is a persisted project row.
type Project struct {
	ID                     int64
	Name                   string
	TransformerCapacityKva decimal.Decimal
	CreatedAt              time.Time
}

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (name, transformer_capacity_kva)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.Pool.QueryRow(ctx, query, p.Name, p.TransformerCapacityKva).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := `
		SELECT id, name, transformer_capacity_kva, created_at
		FROM projects WHERE id = $1
	`
	var p Project
	err := r.db.Pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.TransformerCapacityKva, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects SET name = $1, transformer_capacity_kva = $2 WHERE id = $3
	`
	tag, err := r.db.Pool.Exec(ctx, query, p.Name, p.TransformerCapacityKva, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]Project, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, transformer_capacity_kva, created_at
		FROM projects ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.TransformerCapacityKva, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
