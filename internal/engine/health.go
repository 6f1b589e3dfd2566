package engine

import (
	"fmt"
	"strings"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreFinancialHealth rates leverage, debt service, and liquidity from the
// most recent defined value of each sub-metric. One breached hard floor
// (interest coverage below 1.0x or negative equity) caps the whole category:
// strength elsewhere cannot average away a solvency problem.
func scoreFinancialHealth(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.FinancialHealth

	debtToEquity := func(y *YearRatios) *float64 { return y.DebtToEquity }
	coverage := func(y *YearRatios) *float64 { return y.InterestCoverage }
	currentRatio := func(y *YearRatios) *float64 { return y.CurrentRatio }

	if s.scorableYears(debtToEquity, coverage, currentRatio) < 2 {
		return degradedScore(s, contracts.CategoryFinancialHealth, weight, cfg,
			"total_debt", "total_equity", "operating_income", "interest_expense",
			"current_assets", "current_liabilities")
	}

	var subs []float64
	var notes []string

	if v := s.latest(debtToEquity); v != nil {
		subs = append(subs, scoreAtMost(cfg.FinancialHealth.DebtEquityBands, *v))
		notes = append(notes, fmt.Sprintf("debt-to-equity %.2f", *v))
	} else {
		notes = append(notes, unavailableNote("debt-to-equity", s.missingInputs("total_debt", "total_equity")))
	}

	if v := s.latest(coverage); v != nil {
		subs = append(subs, scoreAtLeast(cfg.FinancialHealth.InterestCoverageBands, *v))
		notes = append(notes, fmt.Sprintf("interest coverage %.1fx", *v))
	} else {
		notes = append(notes, unavailableNote("interest coverage", s.missingInputs("operating_income", "interest_expense")))
	}

	if v := s.latest(currentRatio); v != nil {
		subs = append(subs, scoreAtLeast(cfg.FinancialHealth.CurrentRatioBands, *v))
		notes = append(notes, fmt.Sprintf("current ratio %.2f", *v))
	} else {
		notes = append(notes, unavailableNote("current ratio", s.missingInputs("current_assets", "current_liabilities")))
	}

	score := mean(subs)

	if breached, reason := healthFloorBreached(s, &cfg.FinancialHealth); breached {
		if score > cfg.FinancialHealth.FloorCap {
			score = cfg.FinancialHealth.FloorCap
		}
		notes = append(notes, fmt.Sprintf("solvency floor breached: %s", reason))
	}

	return finishScore(contracts.CategoryFinancialHealth, weight, score, notes)
}

// healthFloorBreached is the named hard-floor rule for Financial Health:
// latest-year interest coverage under the floor, or negative equity.
func healthFloorBreached(s *Series, cfg *scoringconfig.FinancialHealth) (bool, string) {
	if v := s.latestYear(func(y *YearRatios) *float64 { return y.InterestCoverage }); v != nil && *v < cfg.FloorInterestCoverage {
		return true, fmt.Sprintf("interest coverage %.1fx is below %.1fx", *v, cfg.FloorInterestCoverage)
	}
	if len(s.Records) > 0 {
		latest := &s.Records[len(s.Records)-1]
		if latest.TotalEquity != nil && *latest.TotalEquity <= 0 {
			return true, "total equity is negative"
		}
	}
	return false, ""
}

func unavailableNote(metric string, missing []string) string {
	if len(missing) == 0 {
		return fmt.Sprintf("%s unavailable", metric)
	}
	return fmt.Sprintf("%s unavailable (missing %s)", metric, strings.Join(missing, ", "))
}
