package engine

import (
	"fmt"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/scoringconfig"
)

// The red-flag detector is independent of the category weighting: a fixed
// ordered table of predicate rules scanned over the normalized series. Every
// rule is evaluated (no early exit) and detection order is the table order,
// so reports list findings deterministically.

type flagRule struct {
	name string
	eval func(*flagScan) *contracts.RedFlag
}

// flagScan carries the evaluation state for one detection pass. Rules that
// fold into an earlier finding (the liquidity rule) use it to locate the
// finding they merge with.
type flagScan struct {
	s   *Series
	cfg *scoringconfig.RedFlags

	flags           []contracts.RedFlag
	coverageFlagIdx int // index into flags, -1 when absent
}

var flagRules = []flagRule{
	{"interest_coverage_breach", (*flagScan).interestCoverageBreach},
	{"persistent_negative_fcf", (*flagScan).persistentNegativeFCF},
	{"rising_excess_leverage", (*flagScan).risingExcessLeverage},
	{"elevated_accruals", (*flagScan).elevatedAccruals},
	{"margin_compression", (*flagScan).marginCompression},
	{"liquidity_watch", (*flagScan).liquidityWatch},
}

// detectRedFlags runs the full rule table against a normalized series.
func detectRedFlags(s *Series, cfg *scoringconfig.RedFlags) []contracts.RedFlag {
	scan := &flagScan{s: s, cfg: cfg, coverageFlagIdx: -1}
	for _, rule := range flagRules {
		if f := rule.eval(scan); f != nil {
			scan.flags = append(scan.flags, *f)
			if rule.name == "interest_coverage_breach" {
				scan.coverageFlagIdx = len(scan.flags) - 1
			}
		}
	}
	return scan.flags
}

// Interest coverage below the minimum in the latest year.
func (sc *flagScan) interestCoverageBreach() *contracts.RedFlag {
	v := sc.s.latestYear(func(y *YearRatios) *float64 { return y.InterestCoverage })
	if v == nil || *v >= sc.cfg.InterestCoverageMin {
		return nil
	}
	return &contracts.RedFlag{
		Category: contracts.CategoryFinancialHealth,
		Severity: contracts.SeverityHigh,
		Description: fmt.Sprintf("interest coverage %.1fx in the latest year, below the %.1fx minimum",
			*v, sc.cfg.InterestCoverageMin),
		Impact:         "operating income barely covers interest, leaving no buffer for a downturn",
		Recommendation: "review debt maturities and refinancing options before the coverage gap widens",
	}
}

// Negative free cash flow in too many of the trailing window years.
func (sc *flagScan) persistentNegativeFCF() *contracts.RedFlag {
	records := sc.s.Records
	window := sc.cfg.NegativeFCFWindow
	if len(records) > window {
		records = records[len(records)-window:]
	}

	negative := 0
	for i := range records {
		if fcf := records[i].FreeCashFlow; fcf != nil && *fcf < 0 {
			negative++
		}
	}
	if negative < sc.cfg.NegativeFCFYears {
		return nil
	}
	return &contracts.RedFlag{
		Category: contracts.CategoryCashFlow,
		Severity: contracts.SeverityMedium,
		Description: fmt.Sprintf("free cash flow negative in %d of the last %d years",
			negative, len(records)),
		Impact:         "the business is consuming cash and depends on external financing",
		Recommendation: "examine capital expenditure plans and working-capital trends for a path back to positive FCF",
	}
}

// Debt-to-equity above the ceiling and still rising.
func (sc *flagScan) risingExcessLeverage() *contracts.RedFlag {
	v := sc.s.latest(func(y *YearRatios) *float64 { return y.DebtToEquity })
	if v == nil || *v <= sc.cfg.DebtEquityMax {
		return nil
	}
	if sc.s.Trend.Directions[RatioDebtToEquity] != DirectionIncreasing {
		return nil
	}
	return &contracts.RedFlag{
		Category: contracts.CategoryFinancialHealth,
		Severity: contracts.SeverityHigh,
		Description: fmt.Sprintf("debt-to-equity %.2f exceeds %.2f and is rising year over year",
			*v, sc.cfg.DebtEquityMax),
		Impact:         "leverage is compounding, amplifying earnings swings and refinancing risk",
		Recommendation: "assess the deleveraging plan and covenant headroom",
	}
}

// Accrual ratio above the threshold in the latest year: earnings running
// materially ahead of cash.
func (sc *flagScan) elevatedAccruals() *contracts.RedFlag {
	v := sc.s.latestYear(func(y *YearRatios) *float64 { return y.AccrualRatio })
	if v == nil || *v <= sc.cfg.AccrualRatioMax {
		return nil
	}
	return &contracts.RedFlag{
		Category: contracts.CategoryEarningsQuality,
		Severity: contracts.SeverityMedium,
		Description: fmt.Sprintf("accrual ratio %.2f in the latest year, above the %.2f threshold",
			*v, sc.cfg.AccrualRatioMax),
		Impact:         "reported profit runs well ahead of operating cash, a classic earnings-quality warning",
		Recommendation: "reconcile revenue recognition and receivables against cash collection",
	}
}

// Revenue growing while net income shrinks for consecutive years.
func (sc *flagScan) marginCompression() *contracts.RedFlag {
	niByYear := make(map[int]float64, len(sc.s.Trend.NetIncomeGrowth))
	for _, p := range sc.s.Trend.NetIncomeGrowth {
		niByYear[p.Year] = p.Rate
	}

	run, longest := 0, 0
	for _, rev := range sc.s.Trend.RevenueGrowth {
		ni, ok := niByYear[rev.Year]
		if ok && rev.Rate > 0 && ni < 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < sc.cfg.MarginCompressionYears {
		return nil
	}
	return &contracts.RedFlag{
		Category: contracts.CategoryProfitability,
		Severity: contracts.SeverityMedium,
		Description: fmt.Sprintf("revenue grew while net income fell for %d consecutive years", longest),
		Impact:         "margins are compressing: growth is being bought at the expense of profitability",
		Recommendation: "investigate cost structure and pricing power behind the margin erosion",
	}
}

// Current ratio below the liquidity minimum. When the interest-coverage rule
// already fired, the liquidity breach folds into that finding's description
// instead of duplicating the same underlying strain as a second flag.
func (sc *flagScan) liquidityWatch() *contracts.RedFlag {
	v := sc.s.latest(func(y *YearRatios) *float64 { return y.CurrentRatio })
	if v == nil || *v >= sc.cfg.CurrentRatioMin {
		return nil
	}

	if sc.coverageFlagIdx >= 0 {
		sc.flags[sc.coverageFlagIdx].Description += fmt.Sprintf(
			"; current ratio %.2f compounds the liquidity strain", *v)
		return nil
	}
	return &contracts.RedFlag{
		Category:       contracts.CategoryFinancialHealth,
		Severity:       contracts.SeverityLow,
		Description:    fmt.Sprintf("current ratio %.2f, below %.2f", *v, sc.cfg.CurrentRatioMin),
		Impact:         "short-term obligations exceed liquid assets",
		Recommendation: "watch working-capital liquidity over the coming quarters",
	}
}
