package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
	"github.com/wonny/qualis/pkg/logger"
)

// Analyzer runs the full quality assessment pipeline:
// validate → normalize → seven category scorers → red flags → aggregate.
// ⭐ SSOT: 품질 분석은 여기서만 수행
//
// The pipeline is a stateless single-pass transform. Identical input yields
// a bit-identical report, so callers may run analyses concurrently.
type Analyzer struct {
	cfg    *scoringconfig.Config
	logger *logger.Logger
}

// NewAnalyzer creates a new analyzer with the given calibration.
func NewAnalyzer(cfg *scoringconfig.Config, log *logger.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: log,
	}
}

// categoryScorers is the fixed evaluation order, matching CategoryOrder.
var categoryScorers = []func(*Series, *scoringconfig.Config) contracts.CategoryScore{
	scoreProfitability,
	scoreGrowth,
	scoreFinancialHealth,
	scoreCashFlow,
	scoreCapitalEfficiency,
	scoreEarningsQuality,
	scoreGovernance,
}

// Analyze produces a QualityReport for one company's multi-year financials.
// Validation failures reject the whole series: repairing financial data
// would fabricate facts.
func (a *Analyzer) Analyze(m *contracts.MultiYearFinancials) (*contracts.QualityReport, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate financials: %w", err)
	}

	series := Normalize(m)

	scores := make(map[string]contracts.CategoryScore, len(categoryScorers))
	for _, score := range categoryScorers {
		cs := score(series, a.cfg)
		scores[cs.Category] = cs
	}

	flags := detectRedFlags(series, &a.cfg.RedFlags)
	overall := overallScore(scores)

	report := &contracts.QualityReport{
		Ticker:         m.Ticker,
		CompanyName:    m.CompanyName,
		YearsAnalyzed:  len(m.Records),
		OverallScore:   overall,
		Rating:         contracts.RatingFor(overall),
		CategoryScores: scores,
		RedFlags:       flags,
		KeyStrengths:   keyStrengths(scores),
		DataGaps:       series.Gaps(),
		Metrics:        metricsSummary(series),
	}

	a.logger.WithFields(map[string]interface{}{
		"ticker":    m.Ticker,
		"years":     report.YearsAnalyzed,
		"score":     report.OverallScore,
		"rating":    report.Rating,
		"red_flags": len(report.RedFlags),
	}).Debug("Analyzed financial quality")

	return report, nil
}
