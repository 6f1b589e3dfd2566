package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

func normalizeFixture(t *testing.T, m *contracts.MultiYearFinancials) *Series {
	t.Helper()
	require.NoError(t, m.Validate())
	return Normalize(m)
}

func TestScoreProfitability_HealthyCompany(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, healthyFixture())

	cs := scoreProfitability(s, cfg)

	// Margin bands 8 + 8, ROE band 10, averaged, plus the improving-margin
	// adjustment.
	assert.InDelta(t, 9.7, cs.Score, 1e-9)
	assert.Equal(t, contracts.CategoryProfitability, cs.Category)
	assert.Equal(t, cfg.Weights.Profitability, cs.Weight)
	assert.Equal(t, contracts.RatingExcellent, cs.Rating)
	assert.NotEmpty(t, cs.Notes)
}

func TestScoreProfitability_DegradesWithoutInputs(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "BARE",
		Records: []contracts.FinancialRecord{
			{Year: 2021, TotalDebt: f(50), TotalEquity: f(100), CurrentAssets: f(30), CurrentLiabilities: f(20)},
			{Year: 2022, TotalDebt: f(55), TotalEquity: f(110), CurrentAssets: f(35), CurrentLiabilities: f(22)},
		},
	})

	cs := scoreProfitability(s, cfg)

	assert.Equal(t, cfg.NeutralScore, cs.Score)
	require.Len(t, cs.Notes, 1)
	assert.Contains(t, cs.Notes[0], "insufficient data")
	assert.Contains(t, cs.Notes[0], "revenue")
	assert.Contains(t, s.Gaps(), "revenue")
}

func TestScoreGrowth_SteadyCompany(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, healthyFixture())

	cs := scoreGrowth(s, cfg)

	// CAGR ~11.8% lands in the second band; low volatility, no adjustment.
	assert.InDelta(t, 8.0, cs.Score, 1e-9)
}

func TestScoreGrowth_VolatilityCapDominates(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "SPIKY",
		Records: []contracts.FinancialRecord{
			{Year: 2021, Revenue: f(100)},
			{Year: 2022, Revenue: f(200)},
			{Year: 2023, Revenue: f(120)},
		},
	})

	cs := scoreGrowth(s, cfg)

	// Band score 6 from ~9.5% CAGR, capped at 4.0 by the volatility rule.
	assert.InDelta(t, cfg.Growth.HighVolatilityCap, cs.Score, 1e-9)

	found := false
	for _, note := range cs.Notes {
		if strings.Contains(note, "volatile") {
			found = true
		}
	}
	assert.True(t, found, "expected a volatility note, got %v", cs.Notes)
}

func TestScoreFinancialHealth_FloorCapsBreachedCoverage(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "STRESSED",
		Records: []contracts.FinancialRecord{
			{Year: 2021, Revenue: f(100), NetIncome: f(8), OperatingIncome: f(12),
				TotalDebt: f(50), TotalEquity: f(50), InterestExpense: f(5),
				CurrentAssets: f(30), CurrentLiabilities: f(20), TotalAssets: f(150)},
			{Year: 2022, Revenue: f(100), NetIncome: f(2), OperatingIncome: f(5),
				TotalDebt: f(80), TotalEquity: f(40), InterestExpense: f(10),
				CurrentAssets: f(25), CurrentLiabilities: f(30), TotalAssets: f(150)},
		},
	})

	cs := scoreFinancialHealth(s, cfg)

	// Interest coverage 0.5x in the latest year breaches the hard floor.
	assert.InDelta(t, cfg.FinancialHealth.FloorCap, cs.Score, 1e-9)

	joined := ""
	for _, n := range cs.Notes {
		joined += n + "\n"
	}
	assert.Contains(t, joined, "solvency floor breached")
}

func TestScoreFinancialHealth_NegativeEquityFloor(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "UNDERWATER",
		Records: []contracts.FinancialRecord{
			{Year: 2021, OperatingIncome: f(10), InterestExpense: f(2),
				CurrentAssets: f(20), CurrentLiabilities: f(20), TotalEquity: f(5)},
			{Year: 2022, OperatingIncome: f(10), InterestExpense: f(2),
				CurrentAssets: f(20), CurrentLiabilities: f(20), TotalEquity: f(-5)},
		},
	})

	cs := scoreFinancialHealth(s, cfg)

	assert.LessOrEqual(t, cs.Score, cfg.FinancialHealth.FloorCap)

	joined := ""
	for _, n := range cs.Notes {
		joined += n + "\n"
	}
	assert.Contains(t, joined, "total equity is negative")
}

func TestScoreCashFlow_PersistentNegativeFCFCap(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "BURNER",
		Records: []contracts.FinancialRecord{
			{Year: 2020, Revenue: f(100), FreeCashFlow: f(-10), OperatingCashFlow: f(80), NetIncome: f(60)},
			{Year: 2021, Revenue: f(100), FreeCashFlow: f(-10), OperatingCashFlow: f(80), NetIncome: f(60)},
			{Year: 2022, Revenue: f(100), FreeCashFlow: f(-10), OperatingCashFlow: f(80), NetIncome: f(60)},
		},
	})

	cs := scoreCashFlow(s, cfg)

	// Band average would be 6.0; three consecutive negative-FCF years cap it.
	assert.InDelta(t, cfg.CashFlow.NegativeFCFCap, cs.Score, 1e-9)

	joined := ""
	for _, n := range cs.Notes {
		joined += n + "\n"
	}
	assert.Contains(t, joined, "consecutive")
}

func TestLongestNegativeFCFRun_NilBreaksRun(t *testing.T) {
	records := []contracts.FinancialRecord{
		{Year: 2020, FreeCashFlow: f(-10)},
		{Year: 2021},
		{Year: 2022, FreeCashFlow: f(-10)},
	}
	assert.Equal(t, 1, longestNegativeFCFRun(records))
}

func TestScoreCapitalEfficiency_HealthyCompany(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, healthyFixture())

	cs := scoreCapitalEfficiency(s, cfg)
	assert.InDelta(t, 10.0, cs.Score, 1e-9)
}

func TestScoreCapitalEfficiency_DecliningROCEPenalty(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "FADING",
		Records: []contracts.FinancialRecord{
			{Year: 2021, OperatingIncome: f(30), NetIncome: f(15), TotalEquity: f(100), TotalDebt: f(0), TotalAssets: f(100)},
			{Year: 2022, OperatingIncome: f(20), NetIncome: f(10), TotalEquity: f(100), TotalDebt: f(0), TotalAssets: f(100)},
			{Year: 2023, OperatingIncome: f(10), NetIncome: f(5), TotalEquity: f(100), TotalDebt: f(0), TotalAssets: f(100)},
		},
	})

	cs := scoreCapitalEfficiency(s, cfg)

	// Both band averages are 10.0; the declining ROCE trend subtracts 1.5.
	assert.InDelta(t, 8.5, cs.Score, 1e-9)

	joined := ""
	for _, n := range cs.Notes {
		joined += n + "\n"
	}
	assert.Contains(t, joined, "declining")
}

func TestScoreEarningsQuality_MinimumOfAssessments(t *testing.T) {
	cfg := scoringconfig.Default()

	// Earnings far ahead of cash: both legs are weak and the minimum rules.
	s := normalizeFixture(t, &contracts.MultiYearFinancials{
		Ticker: "PAPER",
		Records: []contracts.FinancialRecord{
			{Year: 2021, NetIncome: f(100), OperatingCashFlow: f(20), TotalAssets: f(400)},
			{Year: 2022, NetIncome: f(100), OperatingCashFlow: f(20), TotalAssets: f(400)},
		},
	})

	cs := scoreEarningsQuality(s, cfg)
	assert.InDelta(t, 2.0, cs.Score, 1e-9)
}

func TestScoreEarningsQuality_CleanAccruals(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, healthyFixture())

	// Accrual band 9 vs conversion band 10: the minimum wins.
	cs := scoreEarningsQuality(s, cfg)
	assert.InDelta(t, 9.0, cs.Score, 1e-9)
}

func TestScoreGovernance_ConsistentPayer(t *testing.T) {
	cfg := scoringconfig.Default()
	s := normalizeFixture(t, healthyFixture())

	// Healthy payout 7.0 + stability bonus 1.5 + consistent payer 1.5.
	cs := scoreGovernance(s, cfg)
	assert.InDelta(t, 10.0, cs.Score, 1e-9)
}

func TestScoreGovernance_NeutralWithoutDividendData(t *testing.T) {
	cfg := scoringconfig.Default()

	m := healthyFixture()
	for i := range m.Records {
		m.Records[i].DividendsPaid = nil
	}
	s := normalizeFixture(t, m)

	cs := scoreGovernance(s, cfg)

	assert.Equal(t, cfg.NeutralScore, cs.Score)
	require.Len(t, cs.Notes, 1)
	assert.Contains(t, cs.Notes[0], "dividend history unavailable")
	assert.Contains(t, cs.Notes[0], "dividends_paid")
	assert.Contains(t, s.Gaps(), "dividends_paid")
}
