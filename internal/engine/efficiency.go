package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreCapitalEfficiency rates average ROCE and ROA against bands, with a
// penalty when returns on capital are in a multi-year decline.
func scoreCapitalEfficiency(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.CapitalEfficiency

	roce := func(y *YearRatios) *float64 { return y.ROCE }
	roa := func(y *YearRatios) *float64 { return y.ROA }

	if s.scorableYears(roce, roa) < 2 {
		return degradedScore(s, contracts.CategoryCapitalEfficiency, weight, cfg,
			"operating_income", "net_income", "total_equity", "total_debt", "total_assets")
	}

	var subs []float64
	var notes []string

	if vals := s.values(roce); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.CapitalEfficiency.ROCEBands, avg))
		notes = append(notes, fmt.Sprintf("average ROCE %s across %d years", pct(avg), len(vals)))
	}
	if vals := s.values(roa); len(vals) > 0 {
		avg := mean(vals)
		subs = append(subs, scoreAtLeast(cfg.CapitalEfficiency.ROABands, avg))
		notes = append(notes, fmt.Sprintf("average ROA %s", pct(avg)))
	}

	score := mean(subs)

	if s.Trend.Directions[RatioROCE] == DirectionDecreasing {
		score -= cfg.CapitalEfficiency.DecliningROCEPenalty
		notes = append(notes, "ROCE declining year over year")
	}

	return finishScore(contracts.CategoryCapitalEfficiency, weight, score, notes)
}
