package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/qualis/internal/contracts"
)

// FinancialsRepository persists multi-year statement series.
// ⭐ SSOT: 재무 데이터 저장소는 여기서만
type FinancialsRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialsRepository creates a new financials repository.
func NewFinancialsRepository(pool *pgxpool.Pool) *FinancialsRepository {
	return &FinancialsRepository{pool: pool}
}

// Save upserts every fiscal year of the series in one transaction.
// Unknown line items are stored as NULL, never as zero.
func (r *FinancialsRepository) Save(ctx context.Context, m *contracts.MultiYearFinancials) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO financials (
			ticker, year, company_name,
			revenue, net_income, operating_income,
			operating_cash_flow, free_cash_flow,
			total_debt, total_equity, total_assets,
			current_assets, current_liabilities,
			interest_expense, dividends_paid, capex
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (ticker, year) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			revenue = EXCLUDED.revenue,
			net_income = EXCLUDED.net_income,
			operating_income = EXCLUDED.operating_income,
			operating_cash_flow = EXCLUDED.operating_cash_flow,
			free_cash_flow = EXCLUDED.free_cash_flow,
			total_debt = EXCLUDED.total_debt,
			total_equity = EXCLUDED.total_equity,
			total_assets = EXCLUDED.total_assets,
			current_assets = EXCLUDED.current_assets,
			current_liabilities = EXCLUDED.current_liabilities,
			interest_expense = EXCLUDED.interest_expense,
			dividends_paid = EXCLUDED.dividends_paid,
			capex = EXCLUDED.capex,
			updated_at = NOW()
	`

	for i := range m.Records {
		rec := &m.Records[i]
		_, err := tx.Exec(ctx, query,
			m.Ticker, rec.Year, m.CompanyName,
			rec.Revenue, rec.NetIncome, rec.OperatingIncome,
			rec.OperatingCashFlow, rec.FreeCashFlow,
			rec.TotalDebt, rec.TotalEquity, rec.TotalAssets,
			rec.CurrentAssets, rec.CurrentLiabilities,
			rec.InterestExpense, rec.DividendsPaid, rec.Capex,
		)
		if err != nil {
			return fmt.Errorf("failed to save financials for %s year %d: %w", m.Ticker, rec.Year, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByTicker loads the full stored series for one ticker, ascending by year.
func (r *FinancialsRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.MultiYearFinancials, error) {
	query := `
		SELECT year, company_name,
		       revenue, net_income, operating_income,
		       operating_cash_flow, free_cash_flow,
		       total_debt, total_equity, total_assets,
		       current_assets, current_liabilities,
		       interest_expense, dividends_paid, capex
		FROM financials
		WHERE ticker = $1
		ORDER BY year ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query financials: %w", err)
	}
	defer rows.Close()

	m := &contracts.MultiYearFinancials{Ticker: ticker}
	for rows.Next() {
		var rec contracts.FinancialRecord
		var companyName *string
		err := rows.Scan(
			&rec.Year, &companyName,
			&rec.Revenue, &rec.NetIncome, &rec.OperatingIncome,
			&rec.OperatingCashFlow, &rec.FreeCashFlow,
			&rec.TotalDebt, &rec.TotalEquity, &rec.TotalAssets,
			&rec.CurrentAssets, &rec.CurrentLiabilities,
			&rec.InterestExpense, &rec.DividendsPaid, &rec.Capex,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financials row: %w", err)
		}
		if companyName != nil && m.CompanyName == "" {
			m.CompanyName = *companyName
		}
		m.Records = append(m.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read financials rows: %w", err)
	}

	if len(m.Records) == 0 {
		return nil, ErrNotFound
	}
	return m, nil
}

// ListTickers returns every ticker with stored financials, sorted.
func (r *FinancialsRepository) ListTickers(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT ticker FROM financials ORDER BY ticker`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}
