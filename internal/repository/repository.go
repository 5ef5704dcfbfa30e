package repository

import (
	"gorm.io/gorm"

	"golang-quant/config"
	"golang-quant/pkg/cache"
	"golang-quant/pkg/logger"
)

type Repository struct {
	CandleRepo       CandleRepository
	FundamentalRepo  FundamentalRepository
	FactorRepo       FactorRepository
	ListingRepo      ListingRepository
	BacktestRunRepo  BacktestRunRepository
	YahooFinanceRepo YahooFinanceRepository
	NYSERepo         NYSERepository
	GeminiAIRepo     AIRepository
	UnitOfWork       UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, c cache.Cache) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		CandleRepo:       NewCandleRepository(db),
		FundamentalRepo:  NewFundamentalRepository(db),
		FactorRepo:       NewFactorRepository(db),
		ListingRepo:      NewListingRepository(db),
		BacktestRunRepo:  NewBacktestRunRepository(db),
		YahooFinanceRepo: NewYahooFinanceRepository(cfg, log),
		NYSERepo:         NewNYSERepository(cfg, log, c),
		GeminiAIRepo:     geminiAIRepo,
		UnitOfWork:       NewUnitOfWork(db),
	}, nil
}
