package contracts

// Category names for the seven scored dimensions.
// ⭐ SSOT: 카테고리 이름은 여기서만 정의
const (
	CategoryProfitability     = "Profitability & Margins"
	CategoryGrowth            = "Growth & Revenue Stability"
	CategoryFinancialHealth   = "Financial Health & Leverage"
	CategoryCashFlow          = "Cash Flow Management"
	CategoryCapitalEfficiency = "Capital Efficiency & Returns"
	CategoryEarningsQuality   = "Quality of Earnings"
	CategoryGovernance        = "Management & Governance"
)

// CategoryOrder is the canonical ordering used everywhere a deterministic
// category sequence matters (aggregation, rendering, tie-breaks).
var CategoryOrder = []string{
	CategoryProfitability,
	CategoryGrowth,
	CategoryFinancialHealth,
	CategoryCashFlow,
	CategoryCapitalEfficiency,
	CategoryEarningsQuality,
	CategoryGovernance,
}

// Severity classifies a red flag.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// RatingLabel is the qualitative band for a 0-10 score.
type RatingLabel string

const (
	RatingExcellent RatingLabel = "Excellent"
	RatingStrong    RatingLabel = "Strong"
	RatingModerate  RatingLabel = "Moderate"
	RatingFair      RatingLabel = "Fair"
	RatingWeak      RatingLabel = "Weak"
)

// RatingFor maps a 0-10 score to its label. Bands are closed-open with the
// top band inclusive of 10.0.
func RatingFor(score float64) RatingLabel {
	switch {
	case score >= 8.0:
		return RatingExcellent
	case score >= 7.0:
		return RatingStrong
	case score >= 5.0:
		return RatingModerate
	case score >= 3.0:
		return RatingFair
	default:
		return RatingWeak
	}
}

// CategoryScore is the sub-score produced by one category scorer.
type CategoryScore struct {
	Category string      `json:"category"`
	Weight   float64     `json:"weight"` // 0-1, fixed per category
	Score    float64     `json:"score"`  // 0-10, one decimal
	Rating   RatingLabel `json:"rating"`
	Notes    []string    `json:"notes"` // short explanations citing the driving ratios
}

// RedFlag is a discrete severity-tagged risk finding, independent of the
// weighted category scores.
type RedFlag struct {
	Category       string   `json:"category"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	Impact         string   `json:"impact"`
	Recommendation string   `json:"recommendation"`
}

// MetricsSummary carries the final fiscal year's derived ratios for
// display alongside the scores. Ratios undefined in that year stay nil.
type MetricsSummary struct {
	Year             int      `json:"year"`
	OperatingMargin  *float64 `json:"operating_margin,omitempty"`
	NetMargin        *float64 `json:"net_margin,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	ROCE             *float64 `json:"roce,omitempty"`
	ROA              *float64 `json:"roa,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	InterestCoverage *float64 `json:"interest_coverage,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	FCFMargin        *float64 `json:"fcf_margin,omitempty"`
}

// QualityReport is the immutable result of one analysis call.
// All seven categories are always present; insufficient data degrades a
// category to neutral instead of dropping its weight from the overall score.
//
// The report carries no timestamps: identical input must produce a
// bit-identical report. Persistence layers record their own created_at.
type QualityReport struct {
	Ticker        string `json:"ticker"`
	CompanyName   string `json:"company_name,omitempty"`
	YearsAnalyzed int    `json:"years_analyzed"`

	OverallScore   float64                  `json:"overall_score"` // 0-10, one decimal
	Rating         RatingLabel              `json:"rating"`
	CategoryScores map[string]CategoryScore `json:"category_scores"`
	RedFlags       []RedFlag                `json:"red_flags"` // insertion order = detection order
	KeyStrengths   []string                 `json:"key_strengths"`
	DataGaps       []string                 `json:"data_gaps"` // sorted field names
	Metrics        *MetricsSummary          `json:"metrics_summary,omitempty"`
}

// Category returns the score for a named category.
func (r *QualityReport) Category(name string) (CategoryScore, bool) {
	cs, ok := r.CategoryScores[name]
	return cs, ok
}

// FlagCount returns the number of red flags at the given severity.
func (r *QualityReport) FlagCount(sev Severity) int {
	n := 0
	for _, f := range r.RedFlags {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// HasHighSeverityFlags reports whether any High severity finding exists.
func (r *QualityReport) HasHighSeverityFlags() bool {
	return r.FlagCount(SeverityHigh) > 0
}
