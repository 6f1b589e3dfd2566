package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// Shared scoring helpers for the seven category scorers. Each scorer is a
// pure function (normalized series, calibration) -> CategoryScore.

// scoreAtLeast picks the first band whose lower bound the value meets.
// Bands are ordered descending; the last band is the fallback.
func scoreAtLeast(bands []scoringconfig.Band, v float64) float64 {
	for _, b := range bands {
		if v >= b.Limit {
			return b.Score
		}
	}
	return bands[len(bands)-1].Score
}

// scoreAtMost picks the first band whose upper bound the value stays under.
// Bands are ordered ascending; the last band is the fallback.
func scoreAtMost(bands []scoringconfig.Band, v float64) float64 {
	for _, b := range bands {
		if v <= b.Limit {
			return b.Score
		}
	}
	return bands[len(bands)-1].Score
}

// clampScore bounds a score to [0, 10].
func clampScore(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pct formats a ratio as a percentage for notes.
func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// finishScore clamps, rounds, and assembles a CategoryScore.
func finishScore(category string, weight, score float64, notes []string) contracts.CategoryScore {
	final := round1(clampScore(score))
	return contracts.CategoryScore{
		Category: category,
		Weight:   weight,
		Score:    final,
		Rating:   contracts.RatingFor(final),
		Notes:    notes,
	}
}

// recordFields maps spec field names to record accessors.
var recordFields = map[string]func(*contracts.FinancialRecord) *float64{
	"revenue":             func(r *contracts.FinancialRecord) *float64 { return r.Revenue },
	"net_income":          func(r *contracts.FinancialRecord) *float64 { return r.NetIncome },
	"operating_income":    func(r *contracts.FinancialRecord) *float64 { return r.OperatingIncome },
	"operating_cash_flow": func(r *contracts.FinancialRecord) *float64 { return r.OperatingCashFlow },
	"free_cash_flow":      func(r *contracts.FinancialRecord) *float64 { return r.FreeCashFlow },
	"total_debt":          func(r *contracts.FinancialRecord) *float64 { return r.TotalDebt },
	"total_equity":        func(r *contracts.FinancialRecord) *float64 { return r.TotalEquity },
	"total_assets":        func(r *contracts.FinancialRecord) *float64 { return r.TotalAssets },
	"current_assets":      func(r *contracts.FinancialRecord) *float64 { return r.CurrentAssets },
	"current_liabilities": func(r *contracts.FinancialRecord) *float64 { return r.CurrentLiabilities },
	"interest_expense":    func(r *contracts.FinancialRecord) *float64 { return r.InterestExpense },
	"dividends_paid":      func(r *contracts.FinancialRecord) *float64 { return r.DividendsPaid },
	"capex":               func(r *contracts.FinancialRecord) *float64 { return r.Capex },
}

// missingInputs returns the subset of fields absent in at least one year,
// sorted for determinism, and records each as a data gap.
func (s *Series) missingInputs(fields ...string) []string {
	missing := make(map[string]struct{})
	for _, field := range fields {
		get, ok := recordFields[field]
		if !ok {
			continue
		}
		for i := range s.Records {
			if get(&s.Records[i]) == nil {
				missing[field] = struct{}{}
				break
			}
		}
	}

	out := make([]string, 0, len(missing))
	for field := range missing {
		out = append(out, field)
		s.addGap(field)
	}
	sort.Strings(out)
	return out
}

// degradedScore is the named neutral-fallback rule: a category with fewer
// than two scorable years gets the neutral midpoint instead of dropping its
// weight out of the overall sum.
func degradedScore(s *Series, category string, weight float64, cfg *scoringconfig.Config, inputFields ...string) contracts.CategoryScore {
	missing := s.missingInputs(inputFields...)
	note := "insufficient data for scoring"
	if len(missing) > 0 {
		note = fmt.Sprintf("insufficient data for scoring: missing %s", strings.Join(missing, ", "))
	}
	return finishScore(category, weight, cfg.NeutralScore, []string{note})
}

// scorableYears counts years in which at least one of the given ratios is
// defined. Categories need two such years to score.
func (s *Series) scorableYears(getters ...func(*YearRatios) *float64) int {
	count := 0
	for i := range s.Years {
		for _, get := range getters {
			if get(&s.Years[i]) != nil {
				count++
				break
			}
		}
	}
	return count
}
