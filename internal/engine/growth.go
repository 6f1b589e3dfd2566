package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreGrowth rates revenue CAGR against bands, penalized by YoY growth
// volatility. High growth with high volatility scores below steady moderate
// growth: past the high-volatility threshold the cap dominates the band score.
func scoreGrowth(s *Series, cfg *scoringconfig.Config) contracts.CategoryScore {
	weight := cfg.Weights.Growth

	if s.Trend.RevenueCAGR == nil {
		return degradedScore(s, contracts.CategoryGrowth, weight, cfg, "revenue")
	}

	cagr := *s.Trend.RevenueCAGR
	score := scoreAtLeast(cfg.Growth.RevenueCAGRBands, cagr)
	notes := []string{fmt.Sprintf("revenue CAGR %s over %d years", pct(cagr), len(s.Records))}

	if cv := s.Trend.GrowthVolatility; cv != nil {
		switch {
		case *cv >= cfg.Growth.HighVolatilityCV:
			if score > cfg.Growth.HighVolatilityCap {
				score = cfg.Growth.HighVolatilityCap
			}
			notes = append(notes, fmt.Sprintf("highly volatile growth (CV %.2f) caps the score", *cv))
		case *cv >= cfg.Growth.ModerateVolatilityCV:
			score -= cfg.Growth.ModerateVolatilityPenalty
			notes = append(notes, fmt.Sprintf("uneven growth (CV %.2f)", *cv))
		default:
			notes = append(notes, fmt.Sprintf("steady growth (CV %.2f)", *cv))
		}
	}

	if ni := s.Trend.NetIncomeCAGR; ni != nil {
		switch {
		case *ni >= cfg.Growth.ProfitCAGRBonusMin:
			score += cfg.Growth.ProfitCAGRBonus
			notes = append(notes, fmt.Sprintf("net income compounding at %s", pct(*ni)))
		case *ni <= cfg.Growth.ProfitCAGRPenaltyMax:
			score -= cfg.Growth.ProfitCAGRPenalty
			notes = append(notes, fmt.Sprintf("net income shrinking at %s", pct(*ni)))
		}
	}

	return finishScore(contracts.CategoryGrowth, weight, score, notes)
}
