package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreCashFlow rates free-cash-flow margin and cash conversion, averaged
// across the available years. A persistent run of negative free cash flow
// caps the category: the business is consuming cash regardless of how the
// per-year band scores average out.
func scoreCashFlow(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.CashFlow

	fcfMargin := func(y *YearRatios) *float64 { return y.FCFMargin }
	conversion := func(y *YearRatios) *float64 { return y.CashConversion }

	if s.scorableYears(fcfMargin, conversion) < 2 {
		return degradedScore(s, contracts.CategoryCashFlow, weight, cfg,
			"free_cash_flow", "operating_cash_flow", "net_income", "revenue")
	}

	var subs []float64
	var notes []string

	if vals := s.values(fcfMargin); len(vals) > 0 {
		subs = append(subs, bandAverage(cfg.CashFlow.FCFMarginBands, vals))
		notes = append(notes, fmt.Sprintf("average FCF margin %s across %d years", pct(mean(vals)), len(vals)))
	}
	if vals := s.values(conversion); len(vals) > 0 {
		subs = append(subs, bandAverage(cfg.CashFlow.CashConversionBands, vals))
		notes = append(notes, fmt.Sprintf("average cash conversion %.2fx", mean(vals)))
	}

	score := mean(subs)

	if run := longestNegativeFCFRun(s.Records); run >= cfg.CashFlow.NegativeFCFConsecutive {
		if score > cfg.CashFlow.NegativeFCFCap {
			score = cfg.CashFlow.NegativeFCFCap
		}
		notes = append(notes, fmt.Sprintf("free cash flow negative for %d consecutive years", run))
	}

	return finishScore(contracts.CategoryCashFlow, weight, score, notes)
}

// bandAverage scores each year against the bands and averages the points.
func bandAverage(bands []scoringconfig.Band, vals []float64) float64 {
	scores := make([]float64, 0, len(vals))
	for _, v := range vals {
		scores = append(scores, scoreAtLeast(bands, v))
	}
	return mean(scores)
}

// longestNegativeFCFRun returns the longest run of consecutive years with
// negative free cash flow. A year with no FCF value breaks the run rather
// than extending it.
func longestNegativeFCFRun(records []contracts.FinancialRecord) int {
	longest, run := 0, 0
	for i := range records {
		fcf := records[i].FreeCashFlow
		if fcf != nil && *fcf < 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
