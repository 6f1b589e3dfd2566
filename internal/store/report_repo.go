package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/qualis/internal/contracts"
)

// StoredReport pairs a report with its persistence timestamp. The report
// itself is timestamp-free; created_at belongs to the store.
type StoredReport struct {
	Report    contracts.QualityReport `json:"report"`
	CreatedAt time.Time               `json:"created_at"`
}

// ReportRepository persists analysis results as append-only history.
// ⭐ SSOT: 분석 리포트 저장소는 여기서만
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save appends one report. History is never overwritten, so successive
// runs over refreshed data remain comparable.
func (r *ReportRepository) Save(ctx context.Context, report *contracts.QualityReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO quality_reports (ticker, overall_score, rating, report)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.pool.Exec(ctx, query, report.Ticker, report.OverallScore, string(report.Rating), payload)
	if err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.Ticker, err)
	}
	return nil
}

// GetLatest returns the most recently stored report for one ticker.
func (r *ReportRepository) GetLatest(ctx context.Context, ticker string) (*StoredReport, error) {
	query := `
		SELECT report, created_at
		FROM quality_reports
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payload []byte
	var stored StoredReport
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&payload, &stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report for %s: %w", ticker, err)
	}

	if err := json.Unmarshal(payload, &stored.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report for %s: %w", ticker, err)
	}
	return &stored, nil
}

// History returns up to limit reports for one ticker, newest first.
func (r *ReportRepository) History(ctx context.Context, ticker string, limit int) ([]StoredReport, error) {
	query := `
		SELECT report, created_at
		FROM quality_reports
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	var history []StoredReport
	for rows.Next() {
		var payload []byte
		var stored StoredReport
		if err := rows.Scan(&payload, &stored.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if err := json.Unmarshal(payload, &stored.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report for %s: %w", ticker, err)
		}
		history = append(history, stored)
	}
	return history, rows.Err()
}
