package model

import (
	"time"

	"gorm.io/datatypes"
)

// Listing is one row scraped from the exchange directory.
type Listing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_listings_symbol_kind,priority:1" json:"symbol"`
	Kind      string    `gorm:"type:varchar(10);not null;uniqueIndex:uk_listings_symbol_kind,priority:2" json:"kind"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	URL       string    `gorm:"type:varchar(255)" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

const (
	ProfileStatusOK       = "ok"
	ProfileStatusNotFound = "not_found"
)

// AssetProfile caches the provider's company profile for a symbol.
// Raw keeps the full provider payload so new fields can be backfilled
// without re-fetching.
type AssetProfile struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Symbol          string         `gorm:"type:varchar(20);not null;uniqueIndex" json:"symbol"`
	Kind            string         `gorm:"type:varchar(10)" json:"kind"`
	QuoteType       *string        `gorm:"type:varchar(20)" json:"quote_type"`
	Exchange        *string        `gorm:"type:varchar(20)" json:"exchange"`
	Sector          *string        `gorm:"type:varchar(100)" json:"sector"`
	Industry        *string        `gorm:"type:varchar(100)" json:"industry"`
	Country         *string        `gorm:"type:varchar(100)" json:"country"`
	Raw             datatypes.JSON `gorm:"type:jsonb" json:"raw"`
	Status          string         `gorm:"type:varchar(20);not null;default:ok" json:"status"`
	ErrorMsg        *string        `gorm:"type:text" json:"error_msg"`
	LastCollectedAt time.Time      `json:"last_collected_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AssetProfile) TableName() string {
	return "asset_profiles"
}

type GetListingsParam struct {
	Symbols []string `json:"symbols"`
	Kind    *string  `json:"kind"`
	Limit   *int     `json:"limit"`
}
