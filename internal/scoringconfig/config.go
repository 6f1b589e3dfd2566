package scoringconfig

// Config holds the full scoring calibration: category weights, threshold
// bands, and the named tie-break rules (hard-floor caps, neutral fallback).
// ⭐ SSOT: 점수 기준값은 여기서만 정의
//
// Band cutoffs are calibration choices, not structural requirements, so they
// live in config rather than as literals inside the scorers.
type Config struct {
	Meta              Meta              `yaml:"meta" json:"meta"`
	Weights           Weights           `yaml:"weights" json:"weights"`
	Profitability     Profitability     `yaml:"profitability" json:"profitability"`
	Growth            Growth            `yaml:"growth" json:"growth"`
	FinancialHealth   FinancialHealth   `yaml:"financial_health" json:"financial_health"`
	CashFlow          CashFlow          `yaml:"cash_flow" json:"cash_flow"`
	CapitalEfficiency CapitalEfficiency `yaml:"capital_efficiency" json:"capital_efficiency"`
	EarningsQuality   EarningsQuality   `yaml:"earnings_quality" json:"earnings_quality"`
	Governance        Governance        `yaml:"governance" json:"governance"`
	RedFlags          RedFlags          `yaml:"red_flags" json:"red_flags"`

	// NeutralScore is assigned when a category lacks the inputs to score.
	// Degrading to the midpoint keeps the weighted sum well-defined.
	NeutralScore float64 `yaml:"neutral_score" json:"neutral_score"`
}

// Meta identifies a calibration revision.
type Meta struct {
	CalibrationID string `yaml:"calibration_id" json:"calibration_id"`
	Version       string `yaml:"version" json:"version"`
}

// Weights are the fixed category weights. They must sum to exactly 1.0.
type Weights struct {
	Profitability     float64 `yaml:"profitability" json:"profitability"`
	Growth            float64 `yaml:"growth" json:"growth"`
	FinancialHealth   float64 `yaml:"financial_health" json:"financial_health"`
	CashFlow          float64 `yaml:"cash_flow" json:"cash_flow"`
	CapitalEfficiency float64 `yaml:"capital_efficiency" json:"capital_efficiency"`
	EarningsQuality   float64 `yaml:"earnings_quality" json:"earnings_quality"`
	Governance        float64 `yaml:"governance" json:"governance"`
}

// Sum returns the total of the seven weights.
func (w Weights) Sum() float64 {
	return w.Profitability + w.Growth + w.FinancialHealth + w.CashFlow +
		w.CapitalEfficiency + w.EarningsQuality + w.Governance
}

// Band maps a threshold to a 0-10 point value. Interpretation depends on the
// metric: for higher-is-better metrics Limit is a lower bound and the list is
// ordered descending; for lower-is-better metrics Limit is an upper bound and
// the list is ordered ascending. The last band is the fallback.
type Band struct {
	Limit float64 `yaml:"limit" json:"limit"`
	Score float64 `yaml:"score" json:"score"`
}

// Profitability blends operating margin, net margin, and ROE bands.
type Profitability struct {
	OperatingMarginBands []Band  `yaml:"operating_margin_bands" json:"operating_margin_bands"`
	NetMarginBands       []Band  `yaml:"net_margin_bands" json:"net_margin_bands"`
	ROEBands             []Band  `yaml:"roe_bands" json:"roe_bands"`
	TrendAdjustment      float64 `yaml:"trend_adjustment" json:"trend_adjustment"` // +/- for margin direction
}

// Growth scores revenue CAGR penalized by growth volatility.
type Growth struct {
	RevenueCAGRBands []Band `yaml:"revenue_cagr_bands" json:"revenue_cagr_bands"`

	// Volatility is the coefficient of variation of YoY revenue growth.
	// Above HighVolatilityCV the penalty dominates: the band score is capped.
	ModerateVolatilityCV      float64 `yaml:"moderate_volatility_cv" json:"moderate_volatility_cv"`
	ModerateVolatilityPenalty float64 `yaml:"moderate_volatility_penalty" json:"moderate_volatility_penalty"`
	HighVolatilityCV          float64 `yaml:"high_volatility_cv" json:"high_volatility_cv"`
	HighVolatilityCap         float64 `yaml:"high_volatility_cap" json:"high_volatility_cap"`

	// Secondary net-income growth adjustment.
	ProfitCAGRBonusMin   float64 `yaml:"profit_cagr_bonus_min" json:"profit_cagr_bonus_min"`
	ProfitCAGRBonus      float64 `yaml:"profit_cagr_bonus" json:"profit_cagr_bonus"`
	ProfitCAGRPenaltyMax float64 `yaml:"profit_cagr_penalty_max" json:"profit_cagr_penalty_max"`
	ProfitCAGRPenalty    float64 `yaml:"profit_cagr_penalty" json:"profit_cagr_penalty"`
}

// FinancialHealth scores leverage, debt service, and liquidity.
// The floor rule is a tie-break: one breached sub-metric caps the category.
type FinancialHealth struct {
	DebtEquityBands       []Band  `yaml:"debt_equity_bands" json:"debt_equity_bands"` // lower is better
	InterestCoverageBands []Band  `yaml:"interest_coverage_bands" json:"interest_coverage_bands"`
	CurrentRatioBands     []Band  `yaml:"current_ratio_bands" json:"current_ratio_bands"`
	FloorInterestCoverage float64 `yaml:"floor_interest_coverage" json:"floor_interest_coverage"`
	FloorCap              float64 `yaml:"floor_cap" json:"floor_cap"`
}

// CashFlow scores free-cash-flow margin and cash conversion.
type CashFlow struct {
	FCFMarginBands          []Band  `yaml:"fcf_margin_bands" json:"fcf_margin_bands"`
	CashConversionBands     []Band  `yaml:"cash_conversion_bands" json:"cash_conversion_bands"`
	NegativeFCFConsecutive  int     `yaml:"negative_fcf_consecutive" json:"negative_fcf_consecutive"`
	NegativeFCFCap          float64 `yaml:"negative_fcf_cap" json:"negative_fcf_cap"`
}

// CapitalEfficiency scores ROCE and ROA.
type CapitalEfficiency struct {
	ROCEBands            []Band  `yaml:"roce_bands" json:"roce_bands"`
	ROABands             []Band  `yaml:"roa_bands" json:"roa_bands"`
	DecliningROCEPenalty float64 `yaml:"declining_roce_penalty" json:"declining_roce_penalty"`
}

// EarningsQuality scores the accrual ratio; the final category score is the
// minimum of the accrual assessment and the cash-conversion assessment.
type EarningsQuality struct {
	AccrualRatioBands []Band `yaml:"accrual_ratio_bands" json:"accrual_ratio_bands"` // lower is better
}

// Governance scores payout stability as a coarse proxy. Missing dividend data
// degrades to neutral, since absence is not evidence of poor governance.
type Governance struct {
	HealthyPayoutMin       float64 `yaml:"healthy_payout_min" json:"healthy_payout_min"`
	HealthyPayoutMax       float64 `yaml:"healthy_payout_max" json:"healthy_payout_max"`
	HealthyPayoutScore     float64 `yaml:"healthy_payout_score" json:"healthy_payout_score"`
	ElevatedPayoutScore    float64 `yaml:"elevated_payout_score" json:"elevated_payout_score"`
	ExcessivePayoutScore   float64 `yaml:"excessive_payout_score" json:"excessive_payout_score"`
	MinimalPayoutScore     float64 `yaml:"minimal_payout_score" json:"minimal_payout_score"`
	StableCVMax            float64 `yaml:"stable_cv_max" json:"stable_cv_max"`
	StabilityBonus         float64 `yaml:"stability_bonus" json:"stability_bonus"`
	VolatileCVMin          float64 `yaml:"volatile_cv_min" json:"volatile_cv_min"`
	VolatilityPenalty      float64 `yaml:"volatility_penalty" json:"volatility_penalty"`
	ConsistentPayerBonus   float64 `yaml:"consistent_payer_bonus" json:"consistent_payer_bonus"`
}

// RedFlags holds the breach thresholds for the rule table.
type RedFlags struct {
	InterestCoverageMin    float64 `yaml:"interest_coverage_min" json:"interest_coverage_min"`
	NegativeFCFYears       int     `yaml:"negative_fcf_years" json:"negative_fcf_years"`
	NegativeFCFWindow      int     `yaml:"negative_fcf_window" json:"negative_fcf_window"`
	DebtEquityMax          float64 `yaml:"debt_equity_max" json:"debt_equity_max"`
	AccrualRatioMax        float64 `yaml:"accrual_ratio_max" json:"accrual_ratio_max"`
	MarginCompressionYears int     `yaml:"margin_compression_years" json:"margin_compression_years"`
	CurrentRatioMin        float64 `yaml:"current_ratio_min" json:"current_ratio_min"`
}

// Default returns the shipped calibration.
func Default() *Config {
	return &Config{
		Meta: Meta{
			CalibrationID: "quality_v1",
			Version:       "1.0.0",
		},
		Weights: Weights{
			Profitability:     0.20,
			Growth:            0.15,
			FinancialHealth:   0.20,
			CashFlow:          0.15,
			CapitalEfficiency: 0.15,
			EarningsQuality:   0.10,
			Governance:        0.05,
		},
		Profitability: Profitability{
			OperatingMarginBands: []Band{
				{Limit: 0.20, Score: 10},
				{Limit: 0.15, Score: 8},
				{Limit: 0.10, Score: 6},
				{Limit: 0.05, Score: 4},
				{Limit: 0, Score: 2},
			},
			NetMarginBands: []Band{
				{Limit: 0.15, Score: 10},
				{Limit: 0.10, Score: 8},
				{Limit: 0.05, Score: 6},
				{Limit: 0.0, Score: 4},
				{Limit: 0, Score: 1},
			},
			ROEBands: []Band{
				{Limit: 0.20, Score: 10},
				{Limit: 0.15, Score: 8},
				{Limit: 0.10, Score: 6},
				{Limit: 0.05, Score: 4},
				{Limit: 0, Score: 2},
			},
			TrendAdjustment: 1.0,
		},
		Growth: Growth{
			RevenueCAGRBands: []Band{
				{Limit: 0.20, Score: 10},
				{Limit: 0.10, Score: 8},
				{Limit: 0.05, Score: 6},
				{Limit: 0.0, Score: 4},
				{Limit: 0, Score: 1},
			},
			ModerateVolatilityCV:      0.5,
			ModerateVolatilityPenalty: 1.0,
			HighVolatilityCV:          1.0,
			HighVolatilityCap:         4.0,
			ProfitCAGRBonusMin:        0.25,
			ProfitCAGRBonus:           1.0,
			ProfitCAGRPenaltyMax:      -0.10,
			ProfitCAGRPenalty:         1.5,
		},
		FinancialHealth: FinancialHealth{
			DebtEquityBands: []Band{
				{Limit: 0.30, Score: 10},
				{Limit: 0.50, Score: 8},
				{Limit: 1.00, Score: 6},
				{Limit: 1.50, Score: 4},
				{Limit: 2.00, Score: 3},
				{Limit: 0, Score: 1},
			},
			InterestCoverageBands: []Band{
				{Limit: 10.0, Score: 10},
				{Limit: 5.0, Score: 8},
				{Limit: 3.0, Score: 6},
				{Limit: 1.5, Score: 4},
				{Limit: 1.0, Score: 2},
				{Limit: 0, Score: 0},
			},
			CurrentRatioBands: []Band{
				{Limit: 2.0, Score: 10},
				{Limit: 1.5, Score: 8},
				{Limit: 1.0, Score: 6},
				{Limit: 0.8, Score: 3},
				{Limit: 0, Score: 1},
			},
			FloorInterestCoverage: 1.0,
			FloorCap:              2.0,
		},
		CashFlow: CashFlow{
			FCFMarginBands: []Band{
				{Limit: 0.15, Score: 10},
				{Limit: 0.10, Score: 8},
				{Limit: 0.05, Score: 6},
				{Limit: 0.0, Score: 4},
				{Limit: 0, Score: 2},
			},
			CashConversionBands: []Band{
				{Limit: 1.2, Score: 10},
				{Limit: 1.0, Score: 8},
				{Limit: 0.8, Score: 6},
				{Limit: 0.5, Score: 4},
				{Limit: 0, Score: 2},
			},
			NegativeFCFConsecutive: 2,
			NegativeFCFCap:         3.0,
		},
		CapitalEfficiency: CapitalEfficiency{
			ROCEBands: []Band{
				{Limit: 0.20, Score: 10},
				{Limit: 0.15, Score: 8},
				{Limit: 0.10, Score: 6},
				{Limit: 0.08, Score: 4},
				{Limit: 0, Score: 2},
			},
			ROABands: []Band{
				{Limit: 0.10, Score: 10},
				{Limit: 0.05, Score: 7},
				{Limit: 0.03, Score: 5},
				{Limit: 0, Score: 2},
			},
			DecliningROCEPenalty: 1.5,
		},
		EarningsQuality: EarningsQuality{
			AccrualRatioBands: []Band{
				{Limit: 0.0, Score: 9},
				{Limit: 0.05, Score: 7},
				{Limit: 0.10, Score: 5},
				{Limit: 0.20, Score: 3},
				{Limit: 0, Score: 1},
			},
		},
		Governance: Governance{
			HealthyPayoutMin:     0.10,
			HealthyPayoutMax:     0.60,
			HealthyPayoutScore:   7.0,
			ElevatedPayoutScore:  5.0,
			ExcessivePayoutScore: 3.0,
			MinimalPayoutScore:   5.0,
			StableCVMax:          0.25,
			StabilityBonus:       1.5,
			VolatileCVMin:        0.75,
			VolatilityPenalty:    1.0,
			ConsistentPayerBonus: 1.5,
		},
		RedFlags: RedFlags{
			InterestCoverageMin:    1.5,
			NegativeFCFYears:       2,
			NegativeFCFWindow:      3,
			DebtEquityMax:          2.0,
			AccrualRatioMax:        0.10,
			MarginCompressionYears: 2,
			CurrentRatioMin:        1.0,
		},
		NeutralScore: 5.0,
	}
}
