package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun persists one simulation: its request, the resulting
// equity curve and the performance summary.
type BacktestRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	Strategy     string         `gorm:"type:varchar(50);not null" json:"strategy"`
	Tickers      datatypes.JSON `gorm:"type:jsonb;not null" json:"tickers"`
	Params       datatypes.JSON `gorm:"type:jsonb" json:"params"`
	StartDate    time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time      `gorm:"type:date;not null" json:"end_date"`
	StartBalance float64        `gorm:"not null" json:"start_balance"`
	EndBalance   float64        `gorm:"not null" json:"end_balance"`
	EquityCurve  datatypes.JSON `gorm:"type:jsonb" json:"equity_curve"`
	Summary      datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	Narrative    *string        `gorm:"type:text" json:"narrative"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type GetBacktestRunsParam struct {
	IDs      []uint  `json:"ids"`
	Strategy *string `json:"strategy"`
	Limit    *int    `json:"limit"`
}
