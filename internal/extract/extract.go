package extract

import (
	"sort"
	"time"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
	"golang-quant/pkg/utils"
)

// periodView is one reporting period seen across the income, balance
// and cash-flow statements of a symbol.
type periodView struct {
	period time.Time
	tables []dto.StatementTable
}

// pick resolves an ordered candidate list against the period: the
// first label with a reported value wins.
func (v periodView) pick(candidates []string) *float64 {
	for _, label := range candidates {
		for _, table := range v.tables {
			if val, ok := table.Value(label, v.period); ok {
				return utils.ToPointer(val)
			}
		}
	}
	return nil
}

// Rows normalizes one symbol's raw statement set into fundamentals
// rows, one per reporting period. An entirely empty statement set
// yields no rows, never an error. Unresolvable fields stay nil.
func Rows(symbol string, freq model.Freq, set dto.StatementSet, collectedAt time.Time) []model.Fundamental {
	if set.IsEmpty() {
		return nil
	}

	tables := []dto.StatementTable{set.Income, set.Balance, set.CashFlow}
	periods := mergePeriods(tables)

	var currency *string
	if set.Currency != "" {
		currency = utils.ToPointer(set.Currency)
	}

	rows := make([]model.Fundamental, 0, len(periods))
	for _, period := range periods {
		v := periodView{period: period, tables: tables}

		row := model.Fundamental{
			Symbol:    symbol,
			Freq:      freq,
			PeriodEnd: period,
			Currency:  currency,

			TotalRevenue:    v.pick(revenueLabels),
			GrossProfit:     grossProfit(v),
			OperatingIncome: operatingIncome(v),
			EBIT:            ebit(v),
			NetIncome:       v.pick(netIncomeLabels),

			TotalAssets:        v.pick(totalAssetsLabels),
			CurrentAssets:      v.pick(currentAssetsLabels),
			TotalLiabilities:   v.pick(totalLiabilitiesLabels),
			CurrentLiabilities: v.pick(currentLiabilitiesLabels),
			TotalDebt:          v.pick(totalDebtLabels),
			NetAssets:          v.pick(netAssetsLabels),

			OperatingCashFlow:  v.pick(operatingCashFlowLabels),
			CapitalExpenditure: v.pick(capitalExpenditureLabels),
			CashAndEquivalents: v.pick(cashAndEquivalentsLabels),

			DividendsPaid:     v.pick(dividendsPaidLabels),
			SharesOutstanding: sharesOutstanding(v),

			Source:          "yahoo",
			LastCollectedAt: collectedAt,
		}
		row.FreeCashFlow = freeCashFlow(v)

		rows = append(rows, row)
	}

	return rows
}

// mergePeriods outer-joins the statement tables on period end: a
// period reported in any one statement is kept. Output is sorted
// ascending so downstream ordering is deterministic.
func mergePeriods(tables []dto.StatementTable) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, table := range tables {
		for _, byPeriod := range table {
			for period := range byPeriod {
				seen[period] = struct{}{}
			}
		}
	}

	periods := make([]time.Time, 0, len(seen))
	for period := range seen {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// grossProfit takes the direct label when reported, otherwise derives
// revenue minus the cost-of-revenue label family.
func grossProfit(v periodView) *float64 {
	if gp := v.pick(grossProfitLabels); gp != nil {
		return gp
	}

	revenue := v.pick(revenueLabels)
	if revenue == nil {
		return nil
	}
	cost := v.pick(costOfRevenueLabels)
	if cost == nil {
		return nil
	}
	return utils.ToPointer(*revenue - *cost)
}

// operatingIncome takes the direct or as-reported labels, otherwise
// derives gross profit minus operating expenses. It never falls back
// to EBIT; the EBIT derivation goes the other way.
func operatingIncome(v periodView) *float64 {
	if op := v.pick(operatingIncomeLabels); op != nil {
		return op
	}

	gp := grossProfit(v)
	if gp == nil {
		return nil
	}
	opex := v.pick(operatingExpenseLabels)
	if opex == nil {
		return nil
	}
	return utils.ToPointer(*gp - *opex)
}

// ebit resolves EBIT directly, then via operating income, then from
// pretax income and interest expense. Interest expense is reported as
// a negative outflow, so EBIT = pretax - interest adds it back.
func ebit(v periodView) *float64 {
	if e := v.pick(ebitLabels); e != nil {
		return e
	}

	if op := operatingIncome(v); op != nil {
		return op
	}

	pretax := v.pick(pretaxIncomeLabels)
	if pretax == nil {
		return nil
	}
	interest := v.pick(interestExpenseLabels)
	if interest == nil {
		return nil
	}
	return utils.ToPointer(*pretax - *interest)
}

// sharesOutstanding approximates the period-end share count. Issued
// minus treasury is the best estimate; ordinary shares next; average
// share counts last. Non-positive or absurdly large values are treated
// as missing.
func sharesOutstanding(v periodView) *float64 {
	var shares *float64

	issued := v.pick(sharesIssuedLabels)
	treasury := v.pick(treasurySharesLabels)
	if issued != nil && treasury != nil {
		if diff := *issued - *treasury; diff > 0 {
			shares = utils.ToPointer(diff)
		}
	}

	if shares == nil {
		if ordinary := v.pick(ordinarySharesLabels); ordinary != nil && *ordinary > 0 {
			shares = ordinary
		}
	}

	if shares == nil {
		shares = v.pick(averageSharesLabels)
	}

	if shares == nil || *shares <= 0 || *shares > maxSharesOutstanding {
		return nil
	}
	return shares
}

// freeCashFlow takes the direct label, otherwise operating cash flow
// minus capital expenditure, computed only when the direct label is
// absent.
func freeCashFlow(v periodView) *float64 {
	if fcf := v.pick(freeCashFlowLabels); fcf != nil {
		return fcf
	}

	ocf := v.pick(operatingCashFlowLabels)
	capex := v.pick(capitalExpenditureLabels)
	if ocf == nil || capex == nil {
		return nil
	}
	return utils.ToPointer(*ocf - *capex)
}
