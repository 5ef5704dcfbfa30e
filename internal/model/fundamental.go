package model

import "time"

type Freq string

const (
	FreqAnnual    Freq = "annual"
	FreqQuarterly Freq = "quarterly"
)

// Fundamental is one reported statement period for a symbol. Numeric
// fields are pointers so a line item the provider did not report stays
// NULL instead of collapsing to zero.
type Fundamental struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_fundamentals_symbol_freq_period,priority:1" json:"symbol"`
	Freq      Freq      `gorm:"type:varchar(10);not null;uniqueIndex:uk_fundamentals_symbol_freq_period,priority:2" json:"freq"`
	PeriodEnd time.Time `gorm:"type:date;not null;uniqueIndex:uk_fundamentals_symbol_freq_period,priority:3" json:"period_end"`
	Currency  *string   `gorm:"type:varchar(10)" json:"currency"`

	TotalRevenue    *float64 `json:"total_revenue"`
	GrossProfit     *float64 `json:"gross_profit"`
	OperatingIncome *float64 `json:"operating_income"`
	EBIT            *float64 `gorm:"column:ebit" json:"ebit"`
	NetIncome       *float64 `json:"net_income"`

	TotalAssets        *float64 `json:"total_assets"`
	CurrentAssets      *float64 `json:"current_assets"`
	TotalLiabilities   *float64 `json:"total_liabilities"`
	CurrentLiabilities *float64 `json:"current_liabilities"`
	TotalDebt          *float64 `json:"total_debt"`
	NetAssets          *float64 `json:"net_assets"`

	OperatingCashFlow  *float64 `json:"operating_cash_flow"`
	FreeCashFlow       *float64 `json:"free_cash_flow"`
	CapitalExpenditure *float64 `json:"capital_expenditure"`
	CashAndEquivalents *float64 `json:"cash_and_equivalents"`

	DividendsPaid     *float64 `json:"dividends_paid"`
	SharesOutstanding *float64 `json:"shares_outstanding"`

	Source          string    `gorm:"type:varchar(50);not null;default:yahoo" json:"source"`
	LastCollectedAt time.Time `json:"last_collected_at"`
	ErrorMsg        *string   `gorm:"type:text" json:"error_msg"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Fundamental) TableName() string {
	return "fundamentals"
}

type GetFundamentalsParam struct {
	Symbols []string   `json:"symbols"`
	Freq    *Freq      `json:"freq"`
	Start   *time.Time `json:"start"`
	End     *time.Time `json:"end"`
}
