package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreProfitability blends average operating margin, net margin, and ROE
// against fixed bands, then adjusts for the margin trend direction.
func scoreProfitability(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.Profitability

	opMargin := func(y *YearRatios) *float64 { return y.OperatingMargin }
	netMargin := func(y *YearRatios) *float64 { return y.NetMargin }
	roe := func(y *YearRatios) *float64 { return y.ROE }

	if s.scorableYears(opMargin, netMargin, roe) < 2 {
		return degradedScore(s, contracts.CategoryProfitability, weight, cfg,
			"revenue", "operating_income", "net_income", "total_equity")
	}

	var subs []float64
	var notes []string

	if vals := s.values(opMargin); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.Profitability.OperatingMarginBands, avg))
		notes = append(notes, fmt.Sprintf("average operating margin %s across %d years", pct(avg), len(vals)))
	}
	if vals := s.values(netMargin); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.Profitability.NetMarginBands, avg))
		notes = append(notes, fmt.Sprintf("average net margin %s", pct(avg)))
	}
	if vals := s.values(roe); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.Profitability.ROEBands, avg))
		notes = append(notes, fmt.Sprintf("average return on equity %s", pct(avg)))
	}

	score := mean(subs)

	switch s.Trend.Directions[RatioOperatingMargin] {
	case DirectionIncreasing:
		score += cfg.Profitability.TrendAdjustment
		notes = append(notes, "operating margin expanding year over year")
	case DirectionDecreasing:
		score -= cfg.Profitability.TrendAdjustment
		notes = append(notes, "operating margin contracting year over year")
	}

	return finishScore(contracts.CategoryProfitability, weight, score, notes)
}
