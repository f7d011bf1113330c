package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"station-sizing/internal/model"
)

// ElectricityPrice is one persisted TOU tariff period of a project.
// TimeRanges holds the JSON blob as stored.
type ElectricityPrice struct {
	ID         int64
	ProjectID  int64
	PeriodType string
	TimeRanges string
	Price      decimal.Decimal
	Country    string
}

// PricesToModel decodes the persisted rows into tariff periods, preserving
// row order (first match wins downstream).
func PricesToModel(prices []ElectricityPrice, log zerolog.Logger) []model.TouPeriod {
	out := make([]model.TouPeriod, 0, len(prices))
	for _, p := range prices {
		out = append(out, model.TouPeriod{
			PeriodType: model.PeriodType(p.PeriodType),
			TimeRanges: DecodeClockRanges(p.TimeRanges, log),
			Price:      p.Price,
		})
	}
	return out
}

type PriceRepository struct {
	db *DB
}

func NewPriceRepository(db *DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// ReplaceForProject swaps the project's whole tariff batch atomically:
// delete then insert inside one transaction, so readers never observe a
// half-written tariff.
func (r *PriceRepository) ReplaceForProject(ctx context.Context, projectID int64, prices []ElectricityPrice) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM project_electricity_prices WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete prices: %w", err)
	}
	for i := range prices {
		p := &prices[i]
		p.ProjectID = projectID
		err := tx.QueryRow(ctx, `
			INSERT INTO project_electricity_prices (project_id, period_type, time_ranges, price, country)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, p.ProjectID, p.PeriodType, p.TimeRanges, p.Price, p.Country).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert price: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PriceRepository) ListByProjectID(ctx context.Context, projectID int64) ([]ElectricityPrice, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, project_id, period_type, time_ranges, price, country
		FROM project_electricity_prices
		WHERE project_id = $1
		ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var prices []ElectricityPrice
	for rows.Next() {
		var p ElectricityPrice
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.PeriodType, &p.TimeRanges, &p.Price, &p.Country); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
