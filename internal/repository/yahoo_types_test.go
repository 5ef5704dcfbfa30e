package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
)

func TestCamelToLabel(t *testing.T) {
	tests := []struct {
		name    string
		concept string
		want    string
	}{
		{
			name:    "simple two words",
			concept: "TotalRevenue",
			want:    "Total Revenue",
		},
		{
			name:    "long chain",
			concept: "TotalLiabilitiesNetMinorityInterest",
			want:    "Total Liabilities Net Minority Interest",
		},
		{
			name:    "acronym stays together",
			concept: "EBIT",
			want:    "EBIT",
		},
		{
			name:    "single word",
			concept: "Gross",
			want:    "Gross",
		},
		{
			name:    "cash variants",
			concept: "CashCashEquivalentsAndShortTermInvestments",
			want:    "Cash Cash Equivalents And Short Term Investments",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, camelToLabel(tt.concept))
		})
	}
}

func TestStatementTypes(t *testing.T) {
	annual := statementTypes(model.FreqAnnual)
	quarterly := statementTypes(model.FreqQuarterly)

	assert.Len(t, annual, len(incomeTypes)+len(balanceTypes)+len(cashflowTypes))
	assert.Contains(t, annual, "annualTotalRevenue")
	assert.Contains(t, annual, "annualEBIT")
	assert.Contains(t, quarterly, "quarterlyOperatingCashFlow")
}

func TestTableForConcept(t *testing.T) {
	set := dto.NewStatementSet("AAA", string(model.FreqAnnual))

	tests := []struct {
		name    string
		concept string
		want    dto.StatementTable
	}{
		{name: "income concept", concept: "TotalRevenue", want: set.Income},
		{name: "balance concept", concept: "TotalAssets", want: set.Balance},
		{name: "cashflow concept", concept: "FreeCashFlow", want: set.CashFlow},
		{name: "unknown defaults to income", concept: "SomethingNew", want: set.Income},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tableForConcept(set, tt.concept)
			assert.Equal(t, tt.want, got)
		})
	}
}
