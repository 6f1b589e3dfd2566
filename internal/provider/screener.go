package provider

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/qualis/internal/contracts"
)

// FetchFinancials fetches and parses the annual statements for one ticker.
// ⭐ SSOT: 스크리너 페이지 파싱은 여기서만
func (c *Client) FetchFinancials(ctx context.Context, ticker string) (*contracts.MultiYearFinancials, error) {
	path := fmt.Sprintf("/company/%s/consolidated/", ticker)
	html, err := c.fetchHTML(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}

	m, err := parseCompanyHTML(html, ticker)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  len(m.Records),
	}).Debug("Fetched financial statements")
	return m, nil
}

// Statement sections and the row labels they carry. Labels are matched as
// lowercase substrings because the site renders them with varying suffixes
// ("Sales +", "Net Profit +").
var statementRows = []struct {
	section string
	label   string
	assign  func(*contracts.FinancialRecord, float64)
}{
	{"profit-loss", "sales", func(r *contracts.FinancialRecord, v float64) { r.Revenue = &v }},
	{"profit-loss", "operating profit", func(r *contracts.FinancialRecord, v float64) { r.OperatingIncome = &v }},
	{"profit-loss", "net profit", func(r *contracts.FinancialRecord, v float64) { r.NetIncome = &v }},
	{"profit-loss", "interest", func(r *contracts.FinancialRecord, v float64) { r.InterestExpense = &v }},
	{"balance-sheet", "borrowing", func(r *contracts.FinancialRecord, v float64) { r.TotalDebt = &v }},
	{"balance-sheet", "equity", func(r *contracts.FinancialRecord, v float64) { r.TotalEquity = &v }},
	{"balance-sheet", "total assets", func(r *contracts.FinancialRecord, v float64) { r.TotalAssets = &v }},
	{"cash-flow", "operating", func(r *contracts.FinancialRecord, v float64) { r.OperatingCashFlow = &v }},
	{"cash-flow", "free cash flow", func(r *contracts.FinancialRecord, v float64) { r.FreeCashFlow = &v }},
}

var yearRe = regexp.MustCompile(`(\d{4})`)

// parseCompanyHTML extracts the annual line items from a company page.
// Missing rows or sections simply leave fields nil; the scoring engine
// handles gaps itself.
func parseCompanyHTML(html, ticker string) (*contracts.MultiYearFinancials, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	byYear := make(map[int]*contracts.FinancialRecord)
	record := func(year int) *contracts.FinancialRecord {
		if rec, ok := byYear[year]; ok {
			return rec
		}
		rec := &contracts.FinancialRecord{Year: year}
		byYear[year] = rec
		return rec
	}

	for _, row := range statementRows {
		for year, value := range sectionMetric(doc, row.section, row.label) {
			row.assign(record(year), value)
		}
	}

	if len(byYear) == 0 {
		return nil, fmt.Errorf("no statement tables found for %s", ticker)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	m := &contracts.MultiYearFinancials{
		Ticker:      ticker,
		CompanyName: strings.TrimSpace(doc.Find("h1").First().Text()),
		Records:     make([]contracts.FinancialRecord, 0, len(years)),
	}
	for _, year := range years {
		m.Records = append(m.Records, *byYear[year])
	}
	return m, nil
}

// sectionMetric extracts one labeled row from a statement section as a
// year -> value map. The first matching row wins.
func sectionMetric(doc *goquery.Document, sectionID, label string) map[int]float64 {
	section := doc.Find(fmt.Sprintf("section#%s", sectionID))
	if section.Length() == 0 {
		return nil
	}

	table := section.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	// Header row carries the fiscal year columns ("Mar 2021", ...).
	var years []int
	table.Find("tr").First().Find("th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		if match := yearRe.FindString(cell.Text()); match != "" {
			year, _ := strconv.Atoi(match)
			years = append(years, year)
		} else {
			years = append(years, 0)
		}
	})
	if len(years) == 0 {
		return nil
	}

	var values map[int]float64
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if values != nil {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		rowLabel := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		if !strings.Contains(rowLabel, label) {
			return
		}

		values = make(map[int]float64)
		cells.Slice(1, cells.Length()).Each(func(i int, cell *goquery.Selection) {
			if i >= len(years) || years[i] == 0 {
				return
			}
			if v, ok := parseAmount(cell.Text()); ok {
				values[years[i]] = v
			}
		})
	})
	return values
}

// parseAmount parses a statement cell: thousands separators, negatives,
// and empty placeholders.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
