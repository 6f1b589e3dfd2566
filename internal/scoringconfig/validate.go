package scoringconfig

import (
	"fmt"
	"math"
)

// ValidationError reports a calibration constraint violation. Loading a
// config that fails validation aborts startup.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required calibration constraints.
func Validate(cfg *Config) error {
	// === Weights ===
	// The weighted sum is only meaningful if the weights partition 1.0.
	if math.Abs(cfg.Weights.Sum()-1.0) > 1e-9 {
		return ValidationError{"weights", fmt.Sprintf("must sum to 1.0, got %.6f", cfg.Weights.Sum())}
	}
	for name, w := range map[string]float64{
		"weights.profitability":      cfg.Weights.Profitability,
		"weights.growth":             cfg.Weights.Growth,
		"weights.financial_health":   cfg.Weights.FinancialHealth,
		"weights.cash_flow":          cfg.Weights.CashFlow,
		"weights.capital_efficiency": cfg.Weights.CapitalEfficiency,
		"weights.earnings_quality":   cfg.Weights.EarningsQuality,
		"weights.governance":         cfg.Weights.Governance,
	} {
		if w <= 0 || w >= 1 {
			return ValidationError{name, "must be in (0, 1)"}
		}
	}

	// === Bands ===
	bandSets := map[string][]Band{
		"profitability.operating_margin_bands":     cfg.Profitability.OperatingMarginBands,
		"profitability.net_margin_bands":           cfg.Profitability.NetMarginBands,
		"profitability.roe_bands":                  cfg.Profitability.ROEBands,
		"growth.revenue_cagr_bands":                cfg.Growth.RevenueCAGRBands,
		"financial_health.debt_equity_bands":       cfg.FinancialHealth.DebtEquityBands,
		"financial_health.interest_coverage_bands": cfg.FinancialHealth.InterestCoverageBands,
		"financial_health.current_ratio_bands":     cfg.FinancialHealth.CurrentRatioBands,
		"cash_flow.fcf_margin_bands":               cfg.CashFlow.FCFMarginBands,
		"cash_flow.cash_conversion_bands":          cfg.CashFlow.CashConversionBands,
		"capital_efficiency.roce_bands":            cfg.CapitalEfficiency.ROCEBands,
		"capital_efficiency.roa_bands":             cfg.CapitalEfficiency.ROABands,
		"earnings_quality.accrual_ratio_bands":     cfg.EarningsQuality.AccrualRatioBands,
	}
	for field, bands := range bandSets {
		if len(bands) == 0 {
			return ValidationError{field, "must have at least one band"}
		}
		for i, b := range bands {
			if b.Score < 0 || b.Score > 10 {
				return ValidationError{fmt.Sprintf("%s[%d].score", field, i), "must be in [0, 10]"}
			}
		}
	}

	// === Caps and floors ===
	if cfg.NeutralScore < 0 || cfg.NeutralScore > 10 {
		return ValidationError{"neutral_score", "must be in [0, 10]"}
	}
	if cfg.FinancialHealth.FloorCap < 0 || cfg.FinancialHealth.FloorCap > 10 {
		return ValidationError{"financial_health.floor_cap", "must be in [0, 10]"}
	}
	if cfg.CashFlow.NegativeFCFCap < 0 || cfg.CashFlow.NegativeFCFCap > 10 {
		return ValidationError{"cash_flow.negative_fcf_cap", "must be in [0, 10]"}
	}
	if cfg.CashFlow.NegativeFCFConsecutive < 1 {
		return ValidationError{"cash_flow.negative_fcf_consecutive", "must be >= 1"}
	}
	if cfg.CapitalEfficiency.DecliningROCEPenalty < 0 {
		return ValidationError{"capital_efficiency.declining_roce_penalty", "must be >= 0"}
	}
	if cfg.Growth.HighVolatilityCV <= cfg.Growth.ModerateVolatilityCV {
		return ValidationError{"growth.high_volatility_cv", "must be greater than moderate_volatility_cv"}
	}

	// === Red flag thresholds ===
	if cfg.RedFlags.InterestCoverageMin <= 0 {
		return ValidationError{"red_flags.interest_coverage_min", "must be > 0"}
	}
	if cfg.RedFlags.NegativeFCFWindow < cfg.RedFlags.NegativeFCFYears {
		return ValidationError{"red_flags.negative_fcf_window", "must be >= negative_fcf_years"}
	}
	if cfg.RedFlags.DebtEquityMax <= 0 {
		return ValidationError{"red_flags.debt_equity_max", "must be > 0"}
	}
	if cfg.RedFlags.CurrentRatioMin <= 0 {
		return ValidationError{"red_flags.current_ratio_min", "must be > 0"}
	}
	if cfg.RedFlags.MarginCompressionYears < 1 {
		return ValidationError{"red_flags.margin_compression_years", "must be >= 1"}
	}

	return nil
}
