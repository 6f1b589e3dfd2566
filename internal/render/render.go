// Package render turns a quality report into human-readable text.
// Output is deterministic: same report, same bytes.
package render

import (
	"fmt"
	"strings"

	"github.com/wonny/qualis/internal/contracts"
)

const rule = "======================================================================"

// Text renders the full console report.
func Text(report *contracts.QualityReport) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	b.WriteString("  QUALITY SCORING REPORT\n")
	b.WriteString(rule + "\n")
	if report.CompanyName != "" {
		fmt.Fprintf(&b, "  Company: %s (%s)\n", report.CompanyName, report.Ticker)
	} else {
		fmt.Fprintf(&b, "  Company: %s\n", report.Ticker)
	}
	fmt.Fprintf(&b, "  Years Analyzed: %d\n", report.YearsAnalyzed)
	b.WriteString("\n")

	fmt.Fprintf(&b, "  OVERALL QUALITY SCORE: %.1f/10 [%s]\n", report.OverallScore, report.Rating)
	fmt.Fprintf(&b, "  [%s]\n", scoreBar(report.OverallScore))
	b.WriteString("\n")

	b.WriteString("CATEGORY SCORES\n")
	for _, name := range contracts.CategoryOrder {
		cs, ok := report.CategoryScores[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-30s %4.1f/10  %-9s (%.0f%%)\n", cs.Category, cs.Score, cs.Rating, cs.Weight*100)
		for _, note := range cs.Notes {
			fmt.Fprintf(&b, "      - %s\n", note)
		}
	}

	b.WriteString("\nRED FLAGS\n")
	if len(report.RedFlags) == 0 {
		b.WriteString("  No significant red flags identified.\n")
	}
	for _, flag := range report.RedFlags {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", flag.Severity, flag.Category, flag.Description)
		if flag.Impact != "" {
			fmt.Fprintf(&b, "      Impact: %s\n", flag.Impact)
		}
		if flag.Recommendation != "" {
			fmt.Fprintf(&b, "      Recommendation: %s\n", flag.Recommendation)
		}
	}

	if m := report.Metrics; m != nil {
		fmt.Fprintf(&b, "\nLATEST METRICS (FY%d)\n", m.Year)
		writePct(&b, "Operating margin", m.OperatingMargin)
		writePct(&b, "Net margin", m.NetMargin)
		writePct(&b, "Return on equity", m.ROE)
		writePct(&b, "Return on capital employed", m.ROCE)
		writePct(&b, "Return on assets", m.ROA)
		writeRatio(&b, "Debt to equity", m.DebtToEquity)
		writeTimes(&b, "Interest coverage", m.InterestCoverage)
		writeRatio(&b, "Current ratio", m.CurrentRatio)
		writePct(&b, "FCF margin", m.FCFMargin)
	}

	if len(report.KeyStrengths) > 0 {
		b.WriteString("\nKEY STRENGTHS\n")
		for i, s := range report.KeyStrengths {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
	}

	if len(report.DataGaps) > 0 {
		b.WriteString("\nDATA GAPS\n")
		fmt.Fprintf(&b, "  Missing in one or more years: %s\n", strings.Join(report.DataGaps, ", "))
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func writePct(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "  %-28s %6.1f%%\n", label, *v*100)
	}
}

func writeRatio(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "  %-28s %7.2f\n", label, *v)
	}
}

func writeTimes(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "  %-28s %6.1fx\n", label, *v)
	}
}

// scoreBar draws a 20-cell bar for a 0-10 score.
func scoreBar(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	filled := int(score * 2)
	return strings.Repeat("#", filled) + strings.Repeat("-", 20-filled)
}
