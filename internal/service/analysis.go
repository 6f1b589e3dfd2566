// Package service orchestrates the analysis flow shared by the API,
// the scheduler, and the CLI: fetch, persist, score, cache, notify.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/engine"
	"github.com/wonny/qualis/internal/provider"
	"github.com/wonny/qualis/internal/store"
	"github.com/wonny/qualis/pkg/logger"
	"github.com/wonny/qualis/pkg/redis"
)

// Notifier receives completed reports. The API websocket hub implements it.
type Notifier interface {
	PublishReport(report *contracts.QualityReport)
}

// Analysis wires the provider, the store, and the scoring engine together.
// ⭐ SSOT: 분석 오케스트레이션은 여기서만
//
// Store, cache, and notifier are optional: the CLI runs the same flow
// without a database, and degraded persistence never blocks a score.
type Analysis struct {
	provider   *provider.Client
	analyzer   *engine.Analyzer
	financials *store.FinancialsRepository
	reports    *store.ReportRepository
	cache      *redis.Cache
	notifier   Notifier
	logger     *logger.Logger
}

// NewAnalysis creates the orchestration service.
func NewAnalysis(
	prov *provider.Client,
	analyzer *engine.Analyzer,
	financials *store.FinancialsRepository,
	reports *store.ReportRepository,
	cache *redis.Cache,
	log *logger.Logger,
) *Analysis {
	return &Analysis{
		provider:   prov,
		analyzer:   analyzer,
		financials: financials,
		reports:    reports,
		cache:      cache,
		logger:     log,
	}
}

// SetNotifier attaches a report listener. Must be called before serving.
func (s *Analysis) SetNotifier(n Notifier) {
	s.notifier = n
}

// Refresh fetches the latest statements for one ticker and stores them.
func (s *Analysis) Refresh(ctx context.Context, ticker string) (*contracts.MultiYearFinancials, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no statement provider configured")
	}

	m, err := s.provider.FetchFinancials(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", ticker, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", ticker, err)
	}

	if s.financials != nil {
		if err := s.financials.Save(ctx, m); err != nil {
			return nil, fmt.Errorf("refresh %s: %w", ticker, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.FinancialsKey(ticker), m, redis.TTLDaily); err != nil {
			s.logger.WithError(err).Warn("Failed to cache financials")
		}
	}
	return m, nil
}

// LoadFinancials returns the series for a ticker: cache, then store, then
// a live fetch as last resort.
func (s *Analysis) LoadFinancials(ctx context.Context, ticker string) (*contracts.MultiYearFinancials, error) {
	if s.cache != nil {
		var cached contracts.MultiYearFinancials
		found, err := s.cache.Get(ctx, redis.FinancialsKey(ticker), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Financials cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	if s.financials != nil {
		m, err := s.financials.GetByTicker(ctx, ticker)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	return s.Refresh(ctx, ticker)
}

// AnalyzeTicker runs the full flow for one ticker. With refresh true the
// provider is always consulted; otherwise stored data is preferred.
func (s *Analysis) AnalyzeTicker(ctx context.Context, ticker string, refresh bool) (*contracts.QualityReport, error) {
	var m *contracts.MultiYearFinancials
	var err error
	if refresh {
		m, err = s.Refresh(ctx, ticker)
	} else {
		m, err = s.LoadFinancials(ctx, ticker)
	}
	if err != nil {
		return nil, err
	}

	return s.AnalyzeSeries(ctx, m)
}

// AnalyzeSeries scores an already-loaded series, persisting and publishing
// the result through whatever collaborators are configured.
func (s *Analysis) AnalyzeSeries(ctx context.Context, m *contracts.MultiYearFinancials) (*contracts.QualityReport, error) {
	report, err := s.analyzer.Analyze(m)
	if err != nil {
		return nil, err
	}

	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("persist report for %s: %w", report.Ticker, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.ReportKey(report.Ticker), report, redis.TTLMedium); err != nil {
			s.logger.WithError(err).Warn("Failed to cache report")
		}
	}
	if s.notifier != nil {
		s.notifier.PublishReport(report)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": report.Ticker,
		"score":  report.OverallScore,
		"rating": report.Rating,
	}).Info("Analysis completed")
	return report, nil
}

// LatestReport returns the most recent report for a ticker, cache first.
func (s *Analysis) LatestReport(ctx context.Context, ticker string) (*contracts.QualityReport, error) {
	if s.cache != nil {
		var cached contracts.QualityReport
		found, err := s.cache.Get(ctx, redis.ReportKey(ticker), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Report cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	if s.reports == nil {
		return nil, store.ErrNotFound
	}
	stored, err := s.reports.GetLatest(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return &stored.Report, nil
}
