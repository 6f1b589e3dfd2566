package engine

import (
	"fmt"
	"math"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreGovernance rates payout-ratio stability and dividend consistency as a
// coarse governance proxy. Missing dividend data degrades to the neutral
// midpoint rather than a penalty: absence is not evidence of poor governance.
func scoreGovernance(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.Governance

	payouts := s.values(func(y *YearRatios) *float64 { return y.PayoutRatio })
	if len(payouts) < 2 {
		missing := s.missingInputs("dividends_paid", "net_income")
		note := "dividend history unavailable, scoring neutral"
		if len(missing) > 0 {
			note = fmt.Sprintf("dividend history unavailable (missing %s), scoring neutral",
				missing[0])
		}
		return finishScore(contracts.CategoryGovernance, weight, cfg.NeutralScore, []string{note})
	}

	avg := mean(payouts)
	var score float64
	var notes []string
	switch {
	case avg < cfg.Governance.HealthyPayoutMin:
		score = cfg.Governance.MinimalPayoutScore
		notes = append(notes, fmt.Sprintf("minimal dividend payout (%s of earnings)", pct(avg)))
	case avg <= cfg.Governance.HealthyPayoutMax:
		score = cfg.Governance.HealthyPayoutScore
		notes = append(notes, fmt.Sprintf("healthy dividend payout (%s of earnings)", pct(avg)))
	case avg <= 1.0:
		score = cfg.Governance.ElevatedPayoutScore
		notes = append(notes, fmt.Sprintf("elevated dividend payout (%s of earnings)", pct(avg)))
	default:
		score = cfg.Governance.ExcessivePayoutScore
		notes = append(notes, fmt.Sprintf("payout exceeds earnings (%s)", pct(avg)))
	}

	if cv := coefficientOfVariation(payouts); cv != nil {
		switch {
		case *cv <= cfg.Governance.StableCVMax:
			score += cfg.Governance.StabilityBonus
			notes = append(notes, fmt.Sprintf("stable payout ratio (CV %.2f)", *cv))
		case *cv >= cfg.Governance.VolatileCVMin:
			score -= cfg.Governance.VolatilityPenalty
			notes = append(notes, fmt.Sprintf("erratic payout ratio (CV %.2f)", *cv))
		}
	}

	if paidEveryYear(s.Records) {
		score += cfg.Governance.ConsistentPayerBonus
		notes = append(notes, fmt.Sprintf("dividends paid in all %d years", len(s.Records)))
	}

	return finishScore(contracts.CategoryGovernance, weight, score, notes)
}

// paidEveryYear reports whether a positive dividend was recorded in every
// year of the series.
func paidEveryYear(records []contracts.FinancialRecord) bool {
	for i := range records {
		d := records[i].DividendsPaid
		if d == nil || *d <= 0 {
			return false
		}
	}
	return true
}

// coefficientOfVariation is stddev/|mean|; nil for fewer than two values or
// a zero mean.
func coefficientOfVariation(vals []float64) *float64 {
	if len(vals) < 2 {
		return nil
	}
	m := mean(vals)
	if m == 0 {
		return nil
	}
	variance := 0.0
	for _, v := range vals {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(vals))
	cv := math.Sqrt(variance) / math.Abs(m)
	return &cv
}
