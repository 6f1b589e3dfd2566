package engine

import (
	"math"
	"sort"

	"github.com/wonny/qualis/internal/contracts"
)

// Ratio names used for trend directions and scorer notes.
const (
	RatioOperatingMargin  = "operating_margin"
	RatioNetMargin        = "net_margin"
	RatioROE              = "return_on_equity"
	RatioROCE             = "return_on_capital_employed"
	RatioROA              = "return_on_assets"
	RatioDebtToEquity     = "debt_to_equity"
	RatioInterestCoverage = "interest_coverage"
	RatioCurrentRatio     = "current_ratio"
	RatioFCFMargin        = "fcf_margin"
	RatioCashConversion   = "cash_conversion"
	RatioAccrualRatio     = "accrual_ratio"
	RatioPayoutRatio      = "payout_ratio"
)

// Direction describes the shape of a ratio series over time.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionMixed      Direction = "mixed"
)

// YearRatios holds the dimensionless ratios derived for one fiscal year.
// A nil value means the ratio is undefined for that year: inputs were
// missing or the denominator was not positive. Undefined is never zero.
type YearRatios struct {
	Year             int
	OperatingMargin  *float64
	NetMargin        *float64
	ROE              *float64
	ROCE             *float64
	ROA              *float64
	DebtToEquity     *float64
	InterestCoverage *float64
	CurrentRatio     *float64
	FCFMargin        *float64
	CashConversion   *float64
	AccrualRatio     *float64
	PayoutRatio      *float64
}

// GrowthPoint is a YoY growth observation; Year is the later year of the pair.
type GrowthPoint struct {
	Year int
	Rate float64
}

// TrendStats holds statistics computed across the whole series.
type TrendStats struct {
	RevenueCAGR      *float64
	NetIncomeCAGR    *float64
	GrowthVolatility *float64 // coefficient of variation of YoY revenue growth
	RevenueGrowth    []GrowthPoint
	NetIncomeGrowth  []GrowthPoint
	Directions       map[string]Direction // per ratio, requires >= 2 defined years
}

// Series is the normalized view of a multi-year financial series:
// per-year ratios plus trend statistics.
// ⭐ SSOT: 재무 비율 계산은 여기서만
type Series struct {
	Ticker  string
	Records []contracts.FinancialRecord
	Years   []YearRatios
	Trend   TrendStats

	gaps map[string]struct{}
}

// Normalize derives the per-year ratio set and trend statistics from raw
// line items. It never fails: missing inputs produce undefined ratios and
// are accumulated as data gaps.
func Normalize(m *contracts.MultiYearFinancials) *Series {
	s := &Series{
		Ticker:  m.Ticker,
		Records: m.Records,
		Years:   make([]YearRatios, 0, len(m.Records)),
		gaps:    make(map[string]struct{}),
	}

	for i := range m.Records {
		rec := &m.Records[i]
		yr := YearRatios{Year: rec.Year}

		yr.OperatingMargin = s.div(rec.OperatingIncome, rec.Revenue, "operating_income", "revenue")
		yr.NetMargin = s.div(rec.NetIncome, rec.Revenue, "net_income", "revenue")
		yr.ROE = s.div(rec.NetIncome, rec.TotalEquity, "net_income", "total_equity")
		yr.ROCE = s.roce(rec)
		yr.ROA = s.div(rec.NetIncome, rec.TotalAssets, "net_income", "total_assets")
		yr.DebtToEquity = s.div(rec.TotalDebt, rec.TotalEquity, "total_debt", "total_equity")
		yr.InterestCoverage = s.div(rec.OperatingIncome, rec.InterestExpense, "operating_income", "interest_expense")
		yr.CurrentRatio = s.div(rec.CurrentAssets, rec.CurrentLiabilities, "current_assets", "current_liabilities")
		yr.FCFMargin = s.div(rec.FreeCashFlow, rec.Revenue, "free_cash_flow", "revenue")
		yr.CashConversion = s.div(rec.OperatingCashFlow, rec.NetIncome, "operating_cash_flow", "net_income")
		yr.AccrualRatio = s.accrualRatio(rec)
		yr.PayoutRatio = s.div(rec.DividendsPaid, rec.NetIncome, "dividends_paid", "net_income")

		s.Years = append(s.Years, yr)
	}

	s.Trend = s.computeTrend(m.Records)

	return s
}

// div computes num/den, returning nil (undefined) when an input is missing
// or the denominator is not positive. Missing inputs become data gaps.
func (s *Series) div(num, den *float64, numField, denField string) *float64 {
	if num == nil {
		s.addGap(numField)
		return nil
	}
	if den == nil {
		s.addGap(denField)
		return nil
	}
	if *den <= 0 {
		s.addGap(denField)
		return nil
	}
	v := *num / *den
	return &v
}

// roce computes operating_income / (total_equity + total_debt).
func (s *Series) roce(rec *contracts.FinancialRecord) *float64 {
	if rec.OperatingIncome == nil {
		s.addGap("operating_income")
		return nil
	}
	if rec.TotalEquity == nil {
		s.addGap("total_equity")
		return nil
	}
	if rec.TotalDebt == nil {
		s.addGap("total_debt")
		return nil
	}
	capital := *rec.TotalEquity + *rec.TotalDebt
	if capital <= 0 {
		s.addGap("total_equity")
		return nil
	}
	v := *rec.OperatingIncome / capital
	return &v
}

// accrualRatio computes (net_income - operating_cash_flow) / total_assets.
func (s *Series) accrualRatio(rec *contracts.FinancialRecord) *float64 {
	if rec.NetIncome == nil {
		s.addGap("net_income")
		return nil
	}
	if rec.OperatingCashFlow == nil {
		s.addGap("operating_cash_flow")
		return nil
	}
	if rec.TotalAssets == nil || *rec.TotalAssets <= 0 {
		s.addGap("total_assets")
		return nil
	}
	v := (*rec.NetIncome - *rec.OperatingCashFlow) / *rec.TotalAssets
	return &v
}

func (s *Series) computeTrend(records []contracts.FinancialRecord) TrendStats {
	trend := TrendStats{
		Directions: make(map[string]Direction),
	}

	trend.RevenueCAGR = s.cagr(records, "revenue", func(r *contracts.FinancialRecord) *float64 { return r.Revenue })
	trend.NetIncomeCAGR = s.cagr(records, "net_income", func(r *contracts.FinancialRecord) *float64 { return r.NetIncome })

	trend.RevenueGrowth = yoyGrowth(records, func(r *contracts.FinancialRecord) *float64 { return r.Revenue })
	trend.NetIncomeGrowth = yoyGrowth(records, func(r *contracts.FinancialRecord) *float64 { return r.NetIncome })
	trend.GrowthVolatility = growthVolatility(trend.RevenueGrowth)

	for name, get := range ratioAccessors {
		if dir, ok := direction(s.Years, get); ok {
			trend.Directions[name] = dir
		}
	}

	return trend
}

// ratioAccessors maps ratio names to their YearRatios field.
var ratioAccessors = map[string]func(*YearRatios) *float64{
	RatioOperatingMargin:  func(y *YearRatios) *float64 { return y.OperatingMargin },
	RatioNetMargin:        func(y *YearRatios) *float64 { return y.NetMargin },
	RatioROE:              func(y *YearRatios) *float64 { return y.ROE },
	RatioROCE:             func(y *YearRatios) *float64 { return y.ROCE },
	RatioROA:              func(y *YearRatios) *float64 { return y.ROA },
	RatioDebtToEquity:     func(y *YearRatios) *float64 { return y.DebtToEquity },
	RatioInterestCoverage: func(y *YearRatios) *float64 { return y.InterestCoverage },
	RatioCurrentRatio:     func(y *YearRatios) *float64 { return y.CurrentRatio },
	RatioFCFMargin:        func(y *YearRatios) *float64 { return y.FCFMargin },
	RatioCashConversion:   func(y *YearRatios) *float64 { return y.CashConversion },
	RatioAccrualRatio:     func(y *YearRatios) *float64 { return y.AccrualRatio },
	RatioPayoutRatio:      func(y *YearRatios) *float64 { return y.PayoutRatio },
}

// cagr computes compound annual growth between the first and last defined
// values of a line item. Undefined when either endpoint is missing or not
// positive, or when the span is under one year.
func (s *Series) cagr(records []contracts.FinancialRecord, field string, get func(*contracts.FinancialRecord) *float64) *float64 {
	var first, last *contracts.FinancialRecord
	for i := range records {
		if get(&records[i]) != nil {
			if first == nil {
				first = &records[i]
			}
			last = &records[i]
		} else {
			s.addGap(field)
		}
	}
	if first == nil || last == nil || first == last {
		return nil
	}

	span := last.Year - first.Year
	fv, lv := *get(first), *get(last)
	if span < 1 || fv <= 0 || lv <= 0 {
		return nil
	}

	v := math.Pow(lv/fv, 1.0/float64(span)) - 1.0
	return &v
}

// yoyGrowth collects growth rates for adjacent years where both values are
// defined and the base is positive.
func yoyGrowth(records []contracts.FinancialRecord, get func(*contracts.FinancialRecord) *float64) []GrowthPoint {
	var points []GrowthPoint
	for i := 1; i < len(records); i++ {
		prev, cur := get(&records[i-1]), get(&records[i])
		if prev == nil || cur == nil || *prev <= 0 {
			continue
		}
		points = append(points, GrowthPoint{
			Year: records[i].Year,
			Rate: (*cur - *prev) / *prev,
		})
	}
	return points
}

// growthVolatility is the coefficient of variation of the YoY growth rates.
// Undefined with fewer than two observations or a zero mean.
func growthVolatility(points []GrowthPoint) *float64 {
	if len(points) < 2 {
		return nil
	}

	mean := 0.0
	for _, p := range points {
		mean += p.Rate
	}
	mean /= float64(len(points))
	if mean == 0 {
		return nil
	}

	variance := 0.0
	for _, p := range points {
		d := p.Rate - mean
		variance += d * d
	}
	variance /= float64(len(points))

	cv := math.Sqrt(variance) / math.Abs(mean)
	return &cv
}

// direction classifies a ratio series as monotonically increasing,
// decreasing, or mixed, over its defined years. Requires two defined years.
func direction(years []YearRatios, get func(*YearRatios) *float64) (Direction, bool) {
	var values []float64
	for i := range years {
		if v := get(&years[i]); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) < 2 {
		return DirectionMixed, false
	}

	increasing, decreasing := true, true
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			increasing = false
		}
		if values[i] >= values[i-1] {
			decreasing = false
		}
	}

	switch {
	case increasing:
		return DirectionIncreasing, true
	case decreasing:
		return DirectionDecreasing, true
	default:
		return DirectionMixed, true
	}
}

func (s *Series) addGap(field string) {
	s.gaps[field] = struct{}{}
}

// Gaps returns the sorted set of field names that were unavailable for at
// least one computation.
func (s *Series) Gaps() []string {
	out := make([]string, 0, len(s.gaps))
	for field := range s.gaps {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// values collects the defined values of one ratio across the series.
func (s *Series) values(get func(*YearRatios) *float64) []float64 {
	var out []float64
	for i := range s.Years {
		if v := get(&s.Years[i]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// latest returns the most recent defined value of one ratio.
func (s *Series) latest(get func(*YearRatios) *float64) *float64 {
	for i := len(s.Years) - 1; i >= 0; i-- {
		if v := get(&s.Years[i]); v != nil {
			return v
		}
	}
	return nil
}

// latestYear returns the ratio value for the final year only, nil when that
// year's value is undefined.
func (s *Series) latestYear(get func(*YearRatios) *float64) *float64 {
	if len(s.Years) == 0 {
		return nil
	}
	return get(&s.Years[len(s.Years)-1])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
