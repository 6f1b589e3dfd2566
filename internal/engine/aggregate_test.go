package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// scoreMap builds a category-score map from values aligned with
// CategoryOrder, using the default calibration weights.
func scoreMap(values [7]float64) map[string]contracts.CategoryScore {
	w := scoringconfig.Default().Weights
	weights := [7]float64{
		w.Profitability, w.Growth, w.FinancialHealth, w.CashFlow,
		w.CapitalEfficiency, w.EarningsQuality, w.Governance,
	}

	scores := make(map[string]contracts.CategoryScore, len(values))
	for i, name := range contracts.CategoryOrder {
		scores[name] = contracts.CategoryScore{
			Category: name,
			Weight:   weights[i],
			Score:    values[i],
			Rating:   contracts.RatingFor(values[i]),
		}
	}
	return scores
}

func TestOverallScore_StableAcrossCalls(t *testing.T) {
	// One-decimal score vectors whose pre-rounding weighted sum sits at a
	// 0.05 rounding boundary: any variation in summation order can flip
	// the rounded result.
	vectors := [][7]float64{
		{0, 8.4, 6.3, 6.1, 4.9, 7.3, 5},
		{5.5, 5.5, 5.5, 5.5, 5.5, 5.5, 5.5},
		{9.1, 0.3, 7.7, 2.9, 8.3, 1.1, 6.5},
	}

	for _, values := range vectors {
		scores := scoreMap(values)

		want := overallScore(scores)
		for i := 0; i < 100; i++ {
			assert.Equal(t, want, overallScore(scores), "values %v", values)
		}
	}
}

func TestOverallScore_MatchesCanonicalOrderSum(t *testing.T) {
	values := [7]float64{0, 8.4, 6.3, 6.1, 4.9, 7.3, 5}
	scores := scoreMap(values)

	total := 0.0
	for _, name := range contracts.CategoryOrder {
		total += scores[name].Weight * scores[name].Score
	}
	assert.Equal(t, round1(clampScore(total)), overallScore(scores))
}

func TestKeyStrengths_Empty(t *testing.T) {
	scores := scoreMap([7]float64{5, 5, 5, 5, 5, 5, 5})
	assert.Empty(t, keyStrengths(scores))
}
