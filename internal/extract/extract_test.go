package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tableWith(period time.Time, values map[string]float64) dto.StatementTable {
	t := make(dto.StatementTable)
	for label, v := range values {
		t.Set(label, period, v)
	}
	return t
}

func TestRows_EmptyStatementSet(t *testing.T) {
	set := dto.NewStatementSet("AAPL", "annual")
	rows := Rows("AAPL", model.FreqAnnual, set, time.Now())
	assert.Empty(t, rows)
}

func TestRows_OuterJoinKeepsAllPeriods(t *testing.T) {
	y1 := date(2022, 12, 31)
	y2 := date(2023, 12, 31)

	set := dto.NewStatementSet("AAPL", "annual")
	set.Income.Set("Total Revenue", y1, 1000)
	set.Balance.Set("Total Assets", y2, 5000)

	rows := Rows("AAPL", model.FreqAnnual, set, time.Now())

	assert.Len(t, rows, 2)
	assert.Equal(t, y1, rows[0].PeriodEnd)
	assert.Equal(t, y2, rows[1].PeriodEnd)

	assert.Equal(t, 1000.0, *rows[0].TotalRevenue)
	assert.Nil(t, rows[0].TotalAssets)
	assert.Nil(t, rows[1].TotalRevenue)
	assert.Equal(t, 5000.0, *rows[1].TotalAssets)
}

func TestGrossProfit(t *testing.T) {
	period := date(2023, 12, 31)

	tests := []struct {
		name   string
		income map[string]float64
		want   *float64
	}{
		{
			name:   "direct label wins over derivation",
			income: map[string]float64{"Gross Profit": 300, "Total Revenue": 1000, "Cost Of Revenue": 800},
			want:   ptr(300),
		},
		{
			name:   "derived from revenue minus cost of revenue",
			income: map[string]float64{"Total Revenue": 1000, "Cost Of Revenue": 700},
			want:   ptr(300),
		},
		{
			name:   "derived from cost of goods sold variant",
			income: map[string]float64{"Operating Revenue": 1000, "Cost Of Goods Sold": 600},
			want:   ptr(400),
		},
		{
			name:   "no revenue means no derivation",
			income: map[string]float64{"Cost Of Revenue": 700},
			want:   nil,
		},
		{
			name:   "no cost means no derivation",
			income: map[string]float64{"Total Revenue": 1000},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := periodView{period: period, tables: []dto.StatementTable{tableWith(period, tt.income)}}
			got := grossProfit(v)
			assertPtrEqual(t, tt.want, got)
		})
	}
}

func TestOperatingIncome(t *testing.T) {
	period := date(2023, 12, 31)

	tests := []struct {
		name   string
		income map[string]float64
		want   *float64
	}{
		{
			name:   "direct label",
			income: map[string]float64{"Operating Income": 250},
			want:   ptr(250),
		},
		{
			name:   "as reported label",
			income: map[string]float64{"Total Operating Income As Reported": 240},
			want:   ptr(240),
		},
		{
			name:   "derived from gross profit minus opex",
			income: map[string]float64{"Gross Profit": 300, "Operating Expense": 120},
			want:   ptr(180),
		},
		{
			name:   "never falls back to EBIT",
			income: map[string]float64{"EBIT": 260},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := periodView{period: period, tables: []dto.StatementTable{tableWith(period, tt.income)}}
			got := operatingIncome(v)
			assertPtrEqual(t, tt.want, got)
		})
	}
}

func TestEBIT(t *testing.T) {
	period := date(2023, 12, 31)

	tests := []struct {
		name   string
		income map[string]float64
		want   *float64
	}{
		{
			name:   "direct label",
			income: map[string]float64{"EBIT": 260, "Operating Income": 250},
			want:   ptr(260),
		},
		{
			name:   "falls back to operating income",
			income: map[string]float64{"Operating Income": 250},
			want:   ptr(250),
		},
		{
			name: "pretax minus negative interest expense adds it back",
			income: map[string]float64{
				"Pretax Income":    100,
				"Interest Expense": -10,
			},
			want: ptr(110),
		},
		{
			name:   "pretax alone is not enough",
			income: map[string]float64{"Pretax Income": 100},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := periodView{period: period, tables: []dto.StatementTable{tableWith(period, tt.income)}}
			got := ebit(v)
			assertPtrEqual(t, tt.want, got)
		})
	}
}

func TestSharesOutstanding(t *testing.T) {
	period := date(2023, 12, 31)

	tests := []struct {
		name    string
		balance map[string]float64
		want    *float64
	}{
		{
			name: "issued minus treasury wins over everything",
			balance: map[string]float64{
				"Share Issued":           1000,
				"Treasury Shares Number": 100,
				"Ordinary Shares Number": 850,
				"Diluted Average Shares": 900,
			},
			want: ptr(900),
		},
		{
			name: "non positive difference falls through to ordinary shares",
			balance: map[string]float64{
				"Share Issued":           100,
				"Treasury Shares Number": 100,
				"Ordinary Shares Number": 850,
			},
			want: ptr(850),
		},
		{
			name:    "average shares as last resort",
			balance: map[string]float64{"Basic Average Shares": 800},
			want:    ptr(800),
		},
		{
			name:    "absurdly large count treated as missing",
			balance: map[string]float64{"Ordinary Shares Number": 2e12},
			want:    nil,
		},
		{
			name:    "non positive count treated as missing",
			balance: map[string]float64{"Basic Average Shares": -5},
			want:    nil,
		},
		{
			name:    "nothing reported",
			balance: map[string]float64{},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := periodView{period: period, tables: []dto.StatementTable{tableWith(period, tt.balance)}}
			got := sharesOutstanding(v)
			assertPtrEqual(t, tt.want, got)
		})
	}
}

func TestFreeCashFlow(t *testing.T) {
	period := date(2023, 12, 31)

	tests := []struct {
		name     string
		cashflow map[string]float64
		want     *float64
	}{
		{
			name:     "direct label wins",
			cashflow: map[string]float64{"Free Cash Flow": 120, "Operating Cash Flow": 200, "Capital Expenditure": -50},
			want:     ptr(120),
		},
		{
			name:     "derived as ocf minus capex",
			cashflow: map[string]float64{"Operating Cash Flow": 200, "Capital Expenditure": -50},
			want:     ptr(250),
		},
		{
			name:     "missing capex means no derivation",
			cashflow: map[string]float64{"Operating Cash Flow": 200},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := periodView{period: period, tables: []dto.StatementTable{tableWith(period, tt.cashflow)}}
			got := freeCashFlow(v)
			assertPtrEqual(t, tt.want, got)
		})
	}
}

func ptr(v float64) *float64 { return &v }

func assertPtrEqual(t *testing.T, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	if assert.NotNil(t, got) {
		assert.InDelta(t, *want, *got, 1e-9)
	}
}
