package contracts

import (
	"errors"
	"fmt"
)

// FinancialRecord holds the line items of one fiscal year.
// ⭐ SSOT: 연간 재무 데이터 구조는 여기서만 정의
//
// All monetary fields are optional pointers: nil means "unknown", never zero.
// Values are decimal currency amounts in one consistent unit across a series.
type FinancialRecord struct {
	Year               int      `json:"year"`
	Revenue            *float64 `json:"revenue,omitempty"`
	NetIncome          *float64 `json:"net_income,omitempty"`
	OperatingIncome    *float64 `json:"operating_income,omitempty"`
	OperatingCashFlow  *float64 `json:"operating_cash_flow,omitempty"`
	FreeCashFlow       *float64 `json:"free_cash_flow,omitempty"`
	TotalDebt          *float64 `json:"total_debt,omitempty"`
	TotalEquity        *float64 `json:"total_equity,omitempty"`
	TotalAssets        *float64 `json:"total_assets,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	InterestExpense    *float64 `json:"interest_expense,omitempty"`
	DividendsPaid      *float64 `json:"dividends_paid,omitempty"`
	Capex              *float64 `json:"capex,omitempty"`
}

// MultiYearFinancials is an ordered multi-year series for one company,
// ascending by year, no duplicate years.
type MultiYearFinancials struct {
	Ticker      string            `json:"ticker"`
	CompanyName string            `json:"company_name,omitempty"`
	Records     []FinancialRecord `json:"records"`
}

// ErrInsufficientSeries is returned when fewer than two fiscal years are
// supplied. Trend-free scoring is not supported.
var ErrInsufficientSeries = errors.New("financials: at least two fiscal years are required")

// InvalidRecordError reports a record the analyzer refuses to score.
// The whole series is rejected rather than silently repaired.
type InvalidRecordError struct {
	Year   int
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("financials: invalid record year=%d field=%s: %s", e.Year, e.Field, e.Reason)
}

// nonNegativeFields lists line items that can never be negative on a
// statement. A negative value here is a data defect, not a business fact.
var nonNegativeFields = []struct {
	name  string
	value func(*FinancialRecord) *float64
}{
	{"revenue", func(r *FinancialRecord) *float64 { return r.Revenue }},
	{"total_debt", func(r *FinancialRecord) *float64 { return r.TotalDebt }},
	{"total_assets", func(r *FinancialRecord) *float64 { return r.TotalAssets }},
	{"current_assets", func(r *FinancialRecord) *float64 { return r.CurrentAssets }},
	{"current_liabilities", func(r *FinancialRecord) *float64 { return r.CurrentLiabilities }},
	{"interest_expense", func(r *FinancialRecord) *float64 { return r.InterestExpense }},
	{"dividends_paid", func(r *FinancialRecord) *float64 { return r.DividendsPaid }},
}

// Validate checks the hard preconditions for analysis: at least two years,
// strictly increasing year values, and no semantically impossible amounts.
func (m *MultiYearFinancials) Validate() error {
	if len(m.Records) < 2 {
		return ErrInsufficientSeries
	}

	prevYear := 0
	for i := range m.Records {
		rec := &m.Records[i]

		if rec.Year <= 0 {
			return &InvalidRecordError{Year: rec.Year, Field: "year", Reason: "must be a positive year"}
		}
		if i > 0 {
			if rec.Year == prevYear {
				return &InvalidRecordError{Year: rec.Year, Field: "year", Reason: "duplicate year"}
			}
			if rec.Year < prevYear {
				return &InvalidRecordError{Year: rec.Year, Field: "year", Reason: "years must be strictly increasing"}
			}
		}
		prevYear = rec.Year

		for _, f := range nonNegativeFields {
			if v := f.value(rec); v != nil && *v < 0 {
				return &InvalidRecordError{Year: rec.Year, Field: f.name, Reason: "must not be negative"}
			}
		}
	}

	return nil
}

// Latest returns the most recent record in the series.
func (m *MultiYearFinancials) Latest() *FinancialRecord {
	if len(m.Records) == 0 {
		return nil
	}
	return &m.Records[len(m.Records)-1]
}

// Years returns the year values in series order.
func (m *MultiYearFinancials) Years() []int {
	years := make([]int, len(m.Records))
	for i, rec := range m.Records {
		years[i] = rec.Year
	}
	return years
}

// Float is a convenience constructor for optional line items.
func Float(v float64) *float64 {
	return &v
}
