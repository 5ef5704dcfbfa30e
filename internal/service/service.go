package service

import (
	"golang-quant/config"
	"golang-quant/internal/repository"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/telegram"
)

type Service struct {
	IngestService    IngestService
	FactorService    FactorService
	BacktestService  BacktestService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	notifier *telegram.Notifier,
) *Service {
	ingestService := NewIngestService(cfg, log, repo.NYSERepo, repo.YahooFinanceRepo, repo.ListingRepo, repo.CandleRepo, repo.FundamentalRepo)
	factorService := NewFactorService(cfg, log, repo.FundamentalRepo, repo.CandleRepo, repo.FactorRepo, repo.UnitOfWork)
	backtestService := NewBacktestService(cfg, log, repo.CandleRepo, repo.YahooFinanceRepo, repo.BacktestRunRepo, repo.GeminiAIRepo, notifier)
	schedulerService := NewSchedulerService(cfg, log, ingestService, factorService)

	return &Service{
		IngestService:    ingestService,
		FactorService:    factorService,
		BacktestService:  backtestService,
		SchedulerService: schedulerService,
	}
}
