package factor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/model"
)

func pricedRow(symbol string, periodEnd time.Time, mutate func(*PricedRow)) PricedRow {
	r := PricedRow{
		Fundamental: model.Fundamental{
			Symbol:    symbol,
			Freq:      model.FreqAnnual,
			PeriodEnd: periodEnd,
		},
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestMarketCap(t *testing.T) {
	tests := []struct {
		name   string
		price  *float64
		shares *float64
		want   *float64
	}{
		{name: "both present", price: ptr(100), shares: ptr(1000), want: ptr(100000)},
		{name: "nil price", price: nil, shares: ptr(1000), want: nil},
		{name: "nil shares", price: ptr(100), shares: nil, want: nil},
		{name: "non positive shares", price: ptr(100), shares: ptr(0), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) {
				r.Price = tt.price
				r.SharesOutstanding = tt.shares
			})
			assertPtrEqual(t, tt.want, marketCap(r))
		})
	}
}

func TestEnterpriseValue(t *testing.T) {
	tests := []struct {
		name string
		mc   *float64
		debt *float64
		cash *float64
		want *float64
	}{
		{name: "all present", mc: ptr(1000), debt: ptr(300), cash: ptr(100), want: ptr(1200)},
		{name: "missing debt", mc: ptr(1000), debt: nil, cash: ptr(100), want: nil},
		{name: "missing cash", mc: ptr(1000), debt: ptr(300), cash: nil, want: nil},
		{name: "missing market cap", mc: nil, debt: ptr(300), cash: ptr(100), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPtrEqual(t, tt.want, enterpriseValue(tt.mc, tt.debt, tt.cash))
		})
	}
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name string
		a    *float64
		b    *float64
		want *float64
	}{
		{name: "normal quotient", a: ptr(10), b: ptr(4), want: ptr(2.5)},
		{name: "zero denominator", a: ptr(10), b: ptr(0), want: nil},
		{name: "nil numerator", a: nil, b: ptr(4), want: nil},
		{name: "nil denominator", a: ptr(10), b: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPtrEqual(t, tt.want, safeDiv(tt.a, tt.b))
		})
	}
}

func TestCalculate_Ratios(t *testing.T) {
	r := pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) {
		r.Price = ptr(10)
		r.SharesOutstanding = ptr(100)
		r.TotalRevenue = ptr(500)
		r.NetIncome = ptr(100)
		r.NetAssets = ptr(400)
		r.TotalAssets = ptr(2000)
		r.TotalDebt = ptr(300)
		r.CashAndEquivalents = ptr(100)
		r.CurrentAssets = ptr(600)
		r.CurrentLiabilities = ptr(300)
		r.TotalLiabilities = ptr(1000)
		r.DividendsPaid = ptr(-40)
	})

	out := Calculate([]PricedRow{r}, time.Now())
	assert.Len(t, out, 1)
	f := out[0]

	assertPtrEqual(t, ptr(1000), f.MarketCap)
	assertPtrEqual(t, ptr(1200), f.EnterpriseValue)
	assertPtrEqual(t, ptr(2.0), f.PSR)
	assertPtrEqual(t, ptr(10.0), f.PER)
	assertPtrEqual(t, ptr(2.5), f.PBR)
	assertPtrEqual(t, ptr(2.0), f.CurrentRatio)
	assertPtrEqual(t, ptr(0.75), f.DebtRatio)
	assertPtrEqual(t, ptr(0.25), f.ROE)
	assertPtrEqual(t, ptr(0.05), f.ROA)
	assertPtrEqual(t, ptr(0.25), f.AssetTurnover)
	assertPtrEqual(t, ptr(0.4), f.DividendPayout)
	assertPtrEqual(t, ptr(-400), f.LiquidationValue)
	assert.Nil(t, f.InterestCoverage)
	assert.Nil(t, f.ErrorMsg)
}

func TestCalculate_GrowthAnnualLagOne(t *testing.T) {
	rows := []PricedRow{
		pricedRow("AAA", date(2021, 12, 31), func(r *PricedRow) { r.OperatingIncome = ptr(100) }),
		pricedRow("AAA", date(2022, 12, 31), func(r *PricedRow) { r.OperatingIncome = ptr(110) }),
		pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) { r.OperatingIncome = ptr(121) }),
	}

	out := Calculate(rows, time.Now())

	assert.Nil(t, out[0].OpIncomeGrowth)
	assertPtrEqual(t, ptr(0.10), out[1].OpIncomeGrowth)
	assertPtrEqual(t, ptr(0.10), out[2].OpIncomeGrowth)
}

func TestCalculate_GrowthQuarterlyLagFour(t *testing.T) {
	var rows []PricedRow
	values := []float64{100, 105, 95, 110, 120}
	for i, v := range values {
		v := v
		periodEnd := date(2022, time.Month(3*i+3), 28)
		rows = append(rows, pricedRow("AAA", periodEnd, func(r *PricedRow) {
			r.Freq = model.FreqQuarterly
			r.TotalAssets = &v
		}))
	}

	out := Calculate(rows, time.Now())

	for i := 0; i < 4; i++ {
		assert.Nil(t, out[i].AssetGrowth)
	}
	assertPtrEqual(t, ptr(0.2), out[4].AssetGrowth)
}

func TestCalculate_GrowthZeroLagValue(t *testing.T) {
	rows := []PricedRow{
		pricedRow("AAA", date(2022, 12, 31), func(r *PricedRow) { r.TotalDebt = ptr(0) }),
		pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) { r.TotalDebt = ptr(50) }),
	}

	out := Calculate(rows, time.Now())
	assert.Nil(t, out[1].DebtGrowth)
}

func TestCalculate_MissingInputAnnotation(t *testing.T) {
	r := pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) {
		r.TotalRevenue = ptr(500)
		r.TotalAssets = ptr(2000)
	})

	out := Calculate([]PricedRow{r}, time.Now())

	if assert.NotNil(t, out[0].ErrorMsg) {
		assert.Equal(t, "missing:net_income,net_assets,enterprise_value", *out[0].ErrorMsg)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	rows := []PricedRow{
		pricedRow("BBB", date(2022, 12, 31), func(r *PricedRow) {
			r.Price = ptr(3)
			r.SharesOutstanding = ptr(7)
			r.TotalRevenue = ptr(13)
			r.OperatingIncome = ptr(11)
		}),
		pricedRow("AAA", date(2023, 12, 31), func(r *PricedRow) {
			r.Price = ptr(9)
			r.SharesOutstanding = ptr(21)
			r.NetIncome = ptr(5)
		}),
	}

	now := time.Now()
	first := Calculate(rows, now)
	second := Calculate(rows, now)

	assert.Equal(t, first, second)
}
