package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no stored row.
var ErrNotFound = errors.New("store: not found")

// EnsureSchema creates the tables the repositories depend on.
// ⭐ SSOT: 스키마 정의는 여기서만
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS financials (
			ticker              TEXT    NOT NULL,
			year                INT     NOT NULL,
			company_name        TEXT,
			revenue             DOUBLE PRECISION,
			net_income          DOUBLE PRECISION,
			operating_income    DOUBLE PRECISION,
			operating_cash_flow DOUBLE PRECISION,
			free_cash_flow      DOUBLE PRECISION,
			total_debt          DOUBLE PRECISION,
			total_equity        DOUBLE PRECISION,
			total_assets        DOUBLE PRECISION,
			current_assets      DOUBLE PRECISION,
			current_liabilities DOUBLE PRECISION,
			interest_expense    DOUBLE PRECISION,
			dividends_paid      DOUBLE PRECISION,
			capex               DOUBLE PRECISION,
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (ticker, year)
		)`,
		`CREATE TABLE IF NOT EXISTS quality_reports (
			id            BIGSERIAL PRIMARY KEY,
			ticker        TEXT    NOT NULL,
			overall_score DOUBLE PRECISION NOT NULL,
			rating        TEXT    NOT NULL,
			report        JSONB   NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quality_reports_ticker
			ON quality_reports (ticker, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
