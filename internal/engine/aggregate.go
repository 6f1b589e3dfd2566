package engine

import (
	"fmt"
	"sort"

	"github.com/wonny/qualis/internal/contracts"
)

// overallScore is the weighted sum of the seven category scores, clamped to
// [0, 10] and rounded to one decimal. Summation follows CategoryOrder:
// float addition is not associative, so a fixed order keeps the rounded
// result identical across calls.
func overallScore(scores map[string]contracts.CategoryScore) float64 {
	total := 0.0
	for _, name := range contracts.CategoryOrder {
		cs := scores[name]
		total += cs.Weight * cs.Score
	}
	return round1(clampScore(total))
}

// metricsSummary snapshots the final year's derived ratios for the report.
func metricsSummary(s *Series) *contracts.MetricsSummary {
	if len(s.Years) == 0 {
		return nil
	}
	latest := &s.Years[len(s.Years)-1]
	return &contracts.MetricsSummary{
		Year:             latest.Year,
		OperatingMargin:  latest.OperatingMargin,
		NetMargin:        latest.NetMargin,
		ROE:              latest.ROE,
		ROCE:             latest.ROCE,
		ROA:              latest.ROA,
		DebtToEquity:     latest.DebtToEquity,
		InterestCoverage: latest.InterestCoverage,
		CurrentRatio:     latest.CurrentRatio,
		FCFMargin:        latest.FCFMargin,
	}
}

// keyStrengths selects categories scoring 7.0 or higher, ordered by
// descending score with the canonical category order breaking ties, each
// rendered with the category's defining note.
func keyStrengths(scores map[string]contracts.CategoryScore) []string {
	var strong []contracts.CategoryScore
	for _, name := range contracts.CategoryOrder {
		if cs, ok := scores[name]; ok && cs.Score >= 7.0 {
			strong = append(strong, cs)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool {
		return strong[i].Score > strong[j].Score
	})

	out := make([]string, 0, len(strong))
	for _, cs := range strong {
		if len(cs.Notes) > 0 {
			out = append(out, fmt.Sprintf("%s (%.1f): %s", cs.Category, cs.Score, cs.Notes[0]))
		} else {
			out = append(out, fmt.Sprintf("%s (%.1f)", cs.Category, cs.Score))
		}
	}
	return out
}
