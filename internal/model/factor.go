package model

import "time"

// Factor holds the valuation, quality and growth metrics derived from
// one priced fundamentals row. Every metric is nullable; a metric is
// NULL whenever one of its inputs was missing or its denominator was
// zero. ErrorMsg lists the load-bearing inputs that were missing when
// the row was last calculated.
type Factor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_factors_symbol_freq_period,priority:1" json:"symbol"`
	Freq      Freq      `gorm:"type:varchar(10);not null;uniqueIndex:uk_factors_symbol_freq_period,priority:2" json:"freq"`
	PeriodEnd time.Time `gorm:"type:date;not null;uniqueIndex:uk_factors_symbol_freq_period,priority:3" json:"period_end"`

	Price           *float64 `json:"price"`
	MarketCap       *float64 `json:"market_cap"`
	EnterpriseValue *float64 `json:"enterprise_value"`

	PSR          *float64 `gorm:"column:psr" json:"psr"`
	GPA          *float64 `gorm:"column:gpa" json:"gpa"`
	POR          *float64 `gorm:"column:por" json:"por"`
	EVEBIT       *float64 `gorm:"column:ev_ebit" json:"ev_ebit"`
	PER          *float64 `gorm:"column:per" json:"per"`
	PBR          *float64 `gorm:"column:pbr" json:"pbr"`
	PCR          *float64 `gorm:"column:pcr" json:"pcr"`
	PFCR         *float64 `gorm:"column:pfcr" json:"pfcr"`
	CurrentRatio *float64 `json:"current_ratio"`
	DebtRatio    *float64 `json:"debt_ratio"`

	LiquidationValue *float64 `json:"liquidation_value"`

	ROE           *float64 `gorm:"column:roe" json:"roe"`
	ROA           *float64 `gorm:"column:roa" json:"roa"`
	AssetTurnover *float64 `json:"asset_turnover"`

	DividendPayout *float64 `json:"dividend_payout"`

	OpIncomeGrowth *float64 `json:"op_income_growth"`
	AssetGrowth    *float64 `json:"asset_growth"`
	DebtGrowth     *float64 `json:"debt_growth"`
	SharesGrowth   *float64 `json:"shares_growth"`

	InterestCoverage *float64 `json:"interest_coverage"`

	ErrorMsg         *string   `gorm:"type:text" json:"error_msg"`
	LastCalculatedAt time.Time `json:"last_calculated_at"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Factor) TableName() string {
	return "factors"
}

type GetFactorsParam struct {
	Symbols []string   `json:"symbols"`
	Freq    *Freq      `json:"freq"`
	Start   *time.Time `json:"start"`
	End     *time.Time `json:"end"`
	Limit   *int       `json:"limit"`
}
