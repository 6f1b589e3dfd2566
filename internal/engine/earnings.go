package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreEarningsQuality rates the accrual ratio (net income running ahead of
// operating cash flow lowers the score) and cross-checks cash conversion.
// The category score is the minimum of the two assessments: reported profits
// are only as good as the weaker of the accrual and conversion evidence.
func scoreEarningsQuality(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.EarningsQuality

	accrual := func(y *YearRatios) *float64 { return y.AccrualRatio }
	conversion := func(y *YearRatios) *float64 { return y.CashConversion }

	if s.scorableYears(accrual, conversion) < 2 {
		return degradedScore(s, contracts.CategoryEarningsQuality, weight, cfg,
			"net_income", "operating_cash_flow", "total_assets")
	}

	var subs []float64
	var notes []string

	if vals := s.values(accrual); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtMost(cfg.EarningsQuality.AccrualRatioBands, avg))
		notes = append(notes, fmt.Sprintf("average accrual ratio %s across %d years", pct(avg), len(vals)))
	}
	if vals := s.values(conversion); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.CashFlow.CashConversionBands, avg))
		notes = append(notes, fmt.Sprintf("average cash conversion %.2fx", avg))
	}

	// Minimum, not average: one weak leg taints the earnings signal.
	score := subs[0]
	for _, v := range subs[1:] {
		if v < score {
			score = v
		}
	}

	return finishScore(contracts.CategoryEarningsQuality, weight, score, notes)
}
