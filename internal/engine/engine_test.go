package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/logger"
)

var f = contracts.Float

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	log := logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
	return NewAnalyzer(scoringconfig.Default(), log)
}

// healthyFixture is a complete three-year series with every field present.
func healthyFixture() *contracts.MultiYearFinancials {
	return &contracts.MultiYearFinancials{
		Ticker:      "RELIANCE",
		CompanyName: "Reliance Industries",
		Records: []contracts.FinancialRecord{
			{
				Year: 2021, Revenue: f(1000), NetIncome: f(120), OperatingIncome: f(180),
				OperatingCashFlow: f(150), FreeCashFlow: f(100), TotalDebt: f(200),
				TotalEquity: f(600), TotalAssets: f(1200), CurrentAssets: f(400),
				CurrentLiabilities: f(200), InterestExpense: f(20), DividendsPaid: f(40), Capex: f(50),
			},
			{
				Year: 2022, Revenue: f(1100), NetIncome: f(140), OperatingIncome: f(200),
				OperatingCashFlow: f(170), FreeCashFlow: f(110), TotalDebt: f(190),
				TotalEquity: f(700), TotalAssets: f(1300), CurrentAssets: f(430),
				CurrentLiabilities: f(210), InterestExpense: f(19), DividendsPaid: f(45), Capex: f(55),
			},
			{
				Year: 2023, Revenue: f(1250), NetIncome: f(165), OperatingIncome: f(240),
				OperatingCashFlow: f(200), FreeCashFlow: f(130), TotalDebt: f(180),
				TotalEquity: f(800), TotalAssets: f(1400), CurrentAssets: f(470),
				CurrentLiabilities: f(215), InterestExpense: f(18), DividendsPaid: f(50), Capex: f(60),
			},
		},
	}
}

func TestAnalyze_CompleteSeries(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(healthyFixture())
	require.NoError(t, err)

	assert.Equal(t, "RELIANCE", report.Ticker)
	assert.Equal(t, 3, report.YearsAnalyzed)
	assert.Len(t, report.CategoryScores, 7)
	assert.Empty(t, report.DataGaps, "a fully populated series must produce no data gaps")

	for _, name := range contracts.CategoryOrder {
		cs, ok := report.Category(name)
		require.True(t, ok, "category %s missing", name)
		assert.GreaterOrEqual(t, cs.Score, 0.0)
		assert.LessOrEqual(t, cs.Score, 10.0)
	}
}

func TestAnalyze_OverallIsWeightedSum(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(healthyFixture())
	require.NoError(t, err)

	sum := 0.0
	for _, cs := range report.CategoryScores {
		sum += cs.Weight * cs.Score
	}
	assert.InDelta(t, sum, report.OverallScore, 0.05+1e-9,
		"overall score must equal the weighted sum within rounding tolerance")
	assert.GreaterOrEqual(t, report.OverallScore, 0.0)
	assert.LessOrEqual(t, report.OverallScore, 10.0)
	assert.Equal(t, contracts.RatingFor(report.OverallScore), report.Rating)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newTestAnalyzer(t)

	first, err := a.Analyze(healthyFixture())
	require.NoError(t, err)
	second, err := a.Analyze(healthyFixture())
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce an identical report")
}

func TestAnalyze_RejectsShortSeries(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.Analyze(&contracts.MultiYearFinancials{
		Ticker:  "X",
		Records: []contracts.FinancialRecord{{Year: 2023, Revenue: f(100)}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInsufficientSeries)
}

func TestAnalyze_RejectsInvalidRecord(t *testing.T) {
	a := newTestAnalyzer(t)

	m := healthyFixture()
	m.Records[1].Revenue = f(-5)

	_, err := a.Analyze(m)
	require.Error(t, err)

	var verr *contracts.InvalidRecordError
	assert.ErrorAs(t, err, &verr)
}

// Raising the latest year's operating income must never lower Profitability.
func TestAnalyze_ProfitabilityMonotoneInOperatingIncome(t *testing.T) {
	a := newTestAnalyzer(t)

	base := healthyFixture()
	baseReport, err := a.Analyze(base)
	require.NoError(t, err)
	baseScore, _ := baseReport.Category(contracts.CategoryProfitability)

	for _, bump := range []float64{10, 50, 200, 1000} {
		raised := healthyFixture()
		v := *raised.Records[2].OperatingIncome + bump
		raised.Records[2].OperatingIncome = &v

		report, err := a.Analyze(raised)
		require.NoError(t, err)
		cs, _ := report.Category(contracts.CategoryProfitability)
		assert.GreaterOrEqual(t, cs.Score, baseScore.Score,
			"bump %.0f must not lower the profitability score", bump)
	}
}

// A series missing interest_expense everywhere still scores Financial Health,
// with the missing field surfaced in notes and data gaps.
func TestAnalyze_DegradesWithoutInterestExpense(t *testing.T) {
	a := newTestAnalyzer(t)

	m := healthyFixture()
	for i := range m.Records {
		m.Records[i].InterestExpense = nil
	}

	report, err := a.Analyze(m)
	require.NoError(t, err)

	health, ok := report.Category(contracts.CategoryFinancialHealth)
	require.True(t, ok)
	assert.GreaterOrEqual(t, health.Score, 0.0)
	assert.LessOrEqual(t, health.Score, 10.0)

	foundNote := false
	for _, note := range health.Notes {
		if strings.Contains(note, "interest_expense") {
			foundNote = true
		}
	}
	assert.True(t, foundNote, "notes must cite the missing interest_expense field, got %v", health.Notes)
	assert.Contains(t, report.DataGaps, "interest_expense")
}

func TestAnalyze_TwoYearSeriesHasFullTrend(t *testing.T) {
	a := newTestAnalyzer(t)

	m := healthyFixture()
	m.Records = m.Records[:2]

	report, err := a.Analyze(m)
	require.NoError(t, err)
	assert.Empty(t, report.DataGaps)

	series := Normalize(m)
	require.NotNil(t, series.Trend.RevenueCAGR)
	assert.InDelta(t, 0.10, *series.Trend.RevenueCAGR, 1e-9)
	require.NotNil(t, series.Trend.NetIncomeCAGR)
}

func TestAnalyze_KeyStrengthsOrdered(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(healthyFixture())
	require.NoError(t, err)

	// Every strength corresponds to a category scoring >= 7.0, descending.
	last := 10.1
	for _, s := range report.KeyStrengths {
		matched := false
		for _, cs := range report.CategoryScores {
			if strings.Contains(s, cs.Category) {
				matched = true
				assert.GreaterOrEqual(t, cs.Score, 7.0)
				assert.LessOrEqual(t, cs.Score, last)
				last = cs.Score
			}
		}
		assert.True(t, matched, "strength %q cites no category", s)
	}
}

func TestAnalyze_MetricsSummary(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(healthyFixture())
	require.NoError(t, err)

	m := report.Metrics
	require.NotNil(t, m)
	assert.Equal(t, 2023, m.Year)

	require.NotNil(t, m.OperatingMargin)
	assert.InDelta(t, 240.0/1250.0, *m.OperatingMargin, 1e-9)
	require.NotNil(t, m.DebtToEquity)
	assert.InDelta(t, 180.0/800.0, *m.DebtToEquity, 1e-9)
	require.NotNil(t, m.InterestCoverage)
	assert.InDelta(t, 240.0/18.0, *m.InterestCoverage, 1e-9)
	require.NotNil(t, m.ROE)
	assert.InDelta(t, 165.0/800.0, *m.ROE, 1e-9)
}

func TestAnalyze_MetricsSummaryOmitsUndefined(t *testing.T) {
	a := newTestAnalyzer(t)

	fixture := healthyFixture()
	for i := range fixture.Records {
		fixture.Records[i].InterestExpense = nil
		fixture.Records[i].CurrentAssets = nil
	}

	report, err := a.Analyze(fixture)
	require.NoError(t, err)

	m := report.Metrics
	require.NotNil(t, m)
	assert.Nil(t, m.InterestCoverage)
	assert.Nil(t, m.CurrentRatio)
	assert.NotNil(t, m.OperatingMargin)
}
