package factor

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang-quant/internal/model"
	"golang-quant/pkg/utils"
)

// factorDecimals is the precision derived ratio columns are rounded to
// before persistence. Large integer-like magnitudes (market cap, share
// counts) keep full precision.
const factorDecimals = 4

// Calculate derives the factor batch from a priced fundamentals batch,
// id-for-id. Growth factors lag one period for annual rows and four
// for quarterly rows, within each symbol's period-sorted sequence.
func Calculate(rows []PricedRow, calculatedAt time.Time) []model.Factor {
	factors := make([]model.Factor, len(rows))
	for i, r := range rows {
		factors[i] = baseFactor(r, calculatedAt)
	}

	applyGrowth(rows, factors, model.FreqAnnual, 1)
	applyGrowth(rows, factors, model.FreqQuarterly, 4)

	for i := range factors {
		roundFactor(&factors[i])
		factors[i].ErrorMsg = missingInputs(rows[i], factors[i])
	}
	return factors
}

func baseFactor(r PricedRow, calculatedAt time.Time) model.Factor {
	mc := marketCap(r)
	ev := enterpriseValue(mc, r.TotalDebt, r.CashAndEquivalents)

	f := model.Factor{
		Symbol:    r.Symbol,
		Freq:      r.Freq,
		PeriodEnd: r.PeriodEnd,

		Price:           r.Price,
		MarketCap:       mc,
		EnterpriseValue: ev,

		PSR:          safeDiv(mc, r.TotalRevenue),
		GPA:          safeDiv(r.GrossProfit, r.TotalAssets),
		POR:          safeDiv(mc, r.OperatingIncome),
		EVEBIT:       safeDiv(ev, r.EBIT),
		PER:          safeDiv(mc, r.NetIncome),
		PBR:          safeDiv(mc, r.NetAssets),
		PCR:          safeDiv(mc, r.OperatingCashFlow),
		PFCR:         safeDiv(mc, r.FreeCashFlow),
		CurrentRatio: safeDiv(r.CurrentAssets, r.CurrentLiabilities),
		DebtRatio:    safeDiv(r.TotalDebt, r.NetAssets),

		ROE:           safeDiv(r.NetIncome, r.NetAssets),
		ROA:           safeDiv(r.NetIncome, r.TotalAssets),
		AssetTurnover: safeDiv(r.TotalRevenue, r.TotalAssets),

		DividendPayout: dividendPayout(r.DividendsPaid, r.NetIncome),

		// No interest expense field is collected, so coverage cannot
		// be derived yet.
		InterestCoverage: nil,

		LastCalculatedAt: calculatedAt,
	}

	if r.CurrentAssets != nil && r.TotalLiabilities != nil {
		f.LiquidationValue = utils.ToPointer(*r.CurrentAssets - *r.TotalLiabilities)
	}

	return f
}

// marketCap is price times shares outstanding, nil unless both are
// present and the share count is positive.
func marketCap(r PricedRow) *float64 {
	if r.Price == nil || r.SharesOutstanding == nil || *r.SharesOutstanding <= 0 {
		return nil
	}
	return utils.ToPointer(*r.Price * *r.SharesOutstanding)
}

// enterpriseValue is market cap plus total debt minus cash, nil unless
// all three inputs are present.
func enterpriseValue(mc, debt, cash *float64) *float64 {
	if mc == nil || debt == nil || cash == nil {
		return nil
	}
	return utils.ToPointer(*mc + *debt - *cash)
}

// safeDiv returns nil when either operand is absent or the denominator
// is zero; it never raises and never returns infinity.
func safeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	if math.IsNaN(*a) || math.IsNaN(*b) {
		return nil
	}
	return utils.ToPointer(*a / *b)
}

// dividendPayout divides the absolute dividend outflow by net income.
// Dividends paid is conventionally reported negative.
func dividendPayout(dividendsPaid, netIncome *float64) *float64 {
	if dividendsPaid == nil || netIncome == nil || *netIncome == 0 {
		return nil
	}
	return utils.ToPointer(math.Abs(*dividendsPaid) / *netIncome)
}

// applyGrowth fills the growth factors for every row of one frequency.
// Rows are grouped by symbol and sorted by period end ascending; the
// lagged value of exactly zero makes growth nil.
func applyGrowth(rows []PricedRow, factors []model.Factor, freq model.Freq, lag int) {
	groups := make(map[string][]int)
	for i, r := range rows {
		if r.Freq == freq {
			groups[r.Symbol] = append(groups[r.Symbol], i)
		}
	}

	for _, idxs := range groups {
		sort.SliceStable(idxs, func(a, b int) bool {
			return rows[idxs[a]].PeriodEnd.Before(rows[idxs[b]].PeriodEnd)
		})

		for pos := lag; pos < len(idxs); pos++ {
			cur := rows[idxs[pos]]
			prev := rows[idxs[pos-lag]]
			f := &factors[idxs[pos]]

			f.OpIncomeGrowth = growth(cur.OperatingIncome, prev.OperatingIncome)
			f.AssetGrowth = growth(cur.TotalAssets, prev.TotalAssets)
			f.DebtGrowth = growth(cur.TotalDebt, prev.TotalDebt)
			f.SharesGrowth = growth(cur.SharesOutstanding, prev.SharesOutstanding)
		}
	}
}

func growth(cur, prev *float64) *float64 {
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	return utils.ToPointer((*cur - *prev) / *prev)
}

func roundFactor(f *model.Factor) {
	f.Price = utils.RoundPtr(f.Price, factorDecimals)
	f.EnterpriseValue = utils.RoundPtr(f.EnterpriseValue, factorDecimals)

	f.PSR = utils.RoundPtr(f.PSR, factorDecimals)
	f.GPA = utils.RoundPtr(f.GPA, factorDecimals)
	f.POR = utils.RoundPtr(f.POR, factorDecimals)
	f.EVEBIT = utils.RoundPtr(f.EVEBIT, factorDecimals)
	f.PER = utils.RoundPtr(f.PER, factorDecimals)
	f.PBR = utils.RoundPtr(f.PBR, factorDecimals)
	f.PCR = utils.RoundPtr(f.PCR, factorDecimals)
	f.PFCR = utils.RoundPtr(f.PFCR, factorDecimals)
	f.CurrentRatio = utils.RoundPtr(f.CurrentRatio, factorDecimals)
	f.DebtRatio = utils.RoundPtr(f.DebtRatio, factorDecimals)
	f.LiquidationValue = utils.RoundPtr(f.LiquidationValue, factorDecimals)
	f.ROE = utils.RoundPtr(f.ROE, factorDecimals)
	f.ROA = utils.RoundPtr(f.ROA, factorDecimals)
	f.AssetTurnover = utils.RoundPtr(f.AssetTurnover, factorDecimals)
	f.DividendPayout = utils.RoundPtr(f.DividendPayout, factorDecimals)
	f.OpIncomeGrowth = utils.RoundPtr(f.OpIncomeGrowth, factorDecimals)
	f.AssetGrowth = utils.RoundPtr(f.AssetGrowth, factorDecimals)
	f.DebtGrowth = utils.RoundPtr(f.DebtGrowth, factorDecimals)
	f.SharesGrowth = utils.RoundPtr(f.SharesGrowth, factorDecimals)
}

// missingInputs lists the load-bearing fundamentals that were absent,
// so downstream null factors can be explained without re-deriving.
func missingInputs(r PricedRow, f model.Factor) *string {
	var missing []string
	if r.NetIncome == nil {
		missing = append(missing, "net_income")
	}
	if r.TotalRevenue == nil {
		missing = append(missing, "total_revenue")
	}
	if r.TotalAssets == nil {
		missing = append(missing, "total_assets")
	}
	if r.NetAssets == nil {
		missing = append(missing, "net_assets")
	}
	if f.EnterpriseValue == nil {
		missing = append(missing, "enterprise_value")
	}
	if len(missing) == 0 {
		return nil
	}
	return utils.ToPointer("missing:" + strings.Join(missing, ","))
}
