package model

import "time"

// Candle is one OHLCV bar for a symbol at a given timeframe.
type Candle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_candles_symbol_timeframe_date,priority:1" json:"symbol"`
	Timeframe string    `gorm:"type:varchar(5);not null;uniqueIndex:uk_candles_symbol_timeframe_date,priority:2" json:"timeframe"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uk_candles_symbol_timeframe_date,priority:3" json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `gorm:"not null" json:"close"`
	Volume    int64     `json:"volume"`
	Dividends float64   `gorm:"default:0" json:"dividends"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Candle) TableName() string {
	return "candles"
}

type GetCandlesParam struct {
	Symbols   []string   `json:"symbols"`
	Timeframe string     `json:"timeframe"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
}
