package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyPage = `
<html><body>
<h1>Acme Industries Ltd</h1>
<section id="profit-loss">
<table class="data-table">
<tr><th></th><th>Mar 2021</th><th>Mar 2022</th><th>Mar 2023</th></tr>
<tr><td>Sales +</td><td>1,000</td><td>1,100</td><td>1,250</td></tr>
<tr><td>Operating Profit</td><td>180</td><td>200</td><td>240</td></tr>
<tr><td>Interest</td><td>20</td><td>19</td><td>18</td></tr>
<tr><td>Net Profit +</td><td>120</td><td>140</td><td>165</td></tr>
</table>
</section>
<section id="balance-sheet">
<table class="data-table">
<tr><th></th><th>Mar 2021</th><th>Mar 2022</th><th>Mar 2023</th></tr>
<tr><td>Equity Capital</td><td>600</td><td>700</td><td>800</td></tr>
<tr><td>Borrowings +</td><td>200</td><td>190</td><td>180</td></tr>
<tr><td>Total Assets</td><td>1,200</td><td>1,300</td><td>1,400</td></tr>
</table>
</section>
<section id="cash-flow">
<table class="data-table">
<tr><th></th><th>Mar 2021</th><th>Mar 2022</th><th>Mar 2023</th></tr>
<tr><td>Cash from Operating Activity +</td><td>150</td><td>170</td><td>200</td></tr>
<tr><td>Free Cash Flow</td><td>100</td><td>-</td><td>130</td></tr>
</table>
</section>
</body></html>`

func TestParseCompanyHTML(t *testing.T) {
	m, err := parseCompanyHTML(companyPage, "ACME")
	require.NoError(t, err)

	assert.Equal(t, "ACME", m.Ticker)
	assert.Equal(t, "Acme Industries Ltd", m.CompanyName)
	require.Len(t, m.Records, 3)

	first := m.Records[0]
	assert.Equal(t, 2021, first.Year)
	require.NotNil(t, first.Revenue)
	assert.Equal(t, 1000.0, *first.Revenue)
	require.NotNil(t, first.OperatingIncome)
	assert.Equal(t, 180.0, *first.OperatingIncome)
	require.NotNil(t, first.TotalDebt)
	assert.Equal(t, 200.0, *first.TotalDebt)
	require.NotNil(t, first.OperatingCashFlow)
	assert.Equal(t, 150.0, *first.OperatingCashFlow)

	// An empty placeholder cell stays unknown rather than becoming zero.
	middle := m.Records[1]
	assert.Equal(t, 2022, middle.Year)
	assert.Nil(t, middle.FreeCashFlow)
	require.NotNil(t, middle.NetIncome)
	assert.Equal(t, 140.0, *middle.NetIncome)

	// Fields with no source row stay unknown across the board.
	for _, rec := range m.Records {
		assert.Nil(t, rec.CurrentAssets)
		assert.Nil(t, rec.DividendsPaid)
	}

	// Parsed records form a valid analyzable series.
	require.NoError(t, m.Validate())
}

func TestParseCompanyHTML_NoTables(t *testing.T) {
	_, err := parseCompanyHTML("<html><body><h1>Empty</h1></body></html>", "NONE")
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234", 1234, true},
		{" 56 ", 56, true},
		{"-42", -42, true},
		{"18%", 18, true},
		{"", 0, false},
		{"-", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}
