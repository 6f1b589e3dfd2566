package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/qualis/internal/service"
	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/logger"
)

// RefreshJob re-fetches and re-scores every tracked ticker
// ⭐ SSOT: 정기 재분석 스케줄은 이 Job에서만
type RefreshJob struct {
	analysis *service.Analysis
	config   *config.Config
	logger   *logger.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(analysis *service.Analysis, cfg *config.Config, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		analysis: analysis,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "report_refresh"
}

// Schedule returns the cron schedule from configuration
func (j *RefreshJob) Schedule() string {
	return j.config.Scheduler.RefreshSpec
}

// Run refreshes every tracked ticker. One failing ticker does not stop
// the batch; the job fails only when every ticker fails.
func (j *RefreshJob) Run(ctx context.Context) error {
	tickers := j.config.Scheduler.Tickers
	if len(tickers) == 0 {
		j.logger.Warn("No tracked tickers configured, skipping refresh")
		return nil
	}

	j.logger.WithField("tickers", len(tickers)).Info("Starting scheduled report refresh")

	failed := 0
	for _, ticker := range tickers {
		report, err := j.analysis.AnalyzeTicker(ctx, ticker, true)
		if err != nil {
			failed++
			j.logger.WithError(err).WithField("ticker", ticker).Error("Ticker refresh failed")
			continue
		}

		j.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"score":  report.OverallScore,
			"rating": report.Rating,
		}).Info("Ticker refreshed")
	}

	if failed == len(tickers) {
		return fmt.Errorf("refresh failed for all %d tickers", failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"refreshed": len(tickers) - failed,
		"failed":    failed,
	}).Info("Scheduled report refresh completed")
	return nil
}
