package repository

import (
	"strings"
	"unicode"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
)

// Timeseries type names requested per statement, without the frequency
// prefix. The provider key is e.g. "annualTotalRevenue".
var (
	incomeTypes = []string{
		"TotalRevenue",
		"OperatingRevenue",
		"GrossProfit",
		"CostOfRevenue",
		"OperatingIncome",
		"TotalOperatingIncomeAsReported",
		"OperatingExpense",
		"EBIT",
		"PretaxIncome",
		"InterestExpense",
		"NetIncome",
		"NetIncomeCommonStockholders",
	}

	balanceTypes = []string{
		"TotalAssets",
		"CurrentAssets",
		"TotalLiabilitiesNetMinorityInterest",
		"CurrentLiabilities",
		"TotalDebt",
		"StockholdersEquity",
		"CommonStockEquity",
		"TotalEquityGrossMinorityInterest",
		"CashAndCashEquivalents",
		"CashCashEquivalentsAndShortTermInvestments",
		"ShareIssued",
		"TreasurySharesNumber",
		"OrdinarySharesNumber",
	}

	cashflowTypes = []string{
		"OperatingCashFlow",
		"FreeCashFlow",
		"CapitalExpenditure",
		"CashDividendsPaid",
		"CommonStockDividendPaid",
	}
)

var conceptStatement = buildConceptStatement()

func buildConceptStatement() map[string]int {
	m := make(map[string]int)
	for _, t := range incomeTypes {
		m[t] = 0
	}
	for _, t := range balanceTypes {
		m[t] = 1
	}
	for _, t := range cashflowTypes {
		m[t] = 2
	}
	return m
}

func statementTypes(freq model.Freq) []string {
	prefix := string(freq)
	var types []string
	for _, group := range [][]string{incomeTypes, balanceTypes, cashflowTypes} {
		for _, t := range group {
			types = append(types, prefix+t)
		}
	}
	return types
}

func tableForConcept(set dto.StatementSet, concept string) dto.StatementTable {
	switch conceptStatement[concept] {
	case 1:
		return set.Balance
	case 2:
		return set.CashFlow
	default:
		return set.Income
	}
}

// camelToLabel turns a provider type name into its display label:
// "TotalLiabilitiesNetMinorityInterest" becomes
// "Total Liabilities Net Minority Interest". Acronym runs like EBIT
// stay together.
func camelToLabel(concept string) string {
	var b strings.Builder
	runes := []rune(concept)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
