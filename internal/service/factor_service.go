package service

import (
	"context"
	"fmt"
	"time"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/internal/factor"
	"golang-quant/internal/model"
	"golang-quant/internal/repository"
	"golang-quant/pkg/common"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"
)

// priceLookback widens the price window so the as-of join can reach a
// close shortly before the earliest period end.
const priceLookback = 14 * 24 * time.Hour

type FactorService interface {
	Calculate(ctx context.Context, param dto.CalculateFactorsParam) (dto.BatchResult, error)
	Get(ctx context.Context, param model.GetFactorsParam) ([]model.Factor, error)
}

type factorService struct {
	cfg             *config.Config
	log             *logger.Logger
	fundamentalRepo repository.FundamentalRepository
	candleRepo      repository.CandleRepository
	factorRepo      repository.FactorRepository
	uow             repository.UnitOfWork
}

func NewFactorService(
	cfg *config.Config,
	log *logger.Logger,
	fundamentalRepo repository.FundamentalRepository,
	candleRepo repository.CandleRepository,
	factorRepo repository.FactorRepository,
	uow repository.UnitOfWork,
) FactorService {
	return &factorService{
		cfg:             cfg,
		log:             log,
		fundamentalRepo: fundamentalRepo,
		candleRepo:      candleRepo,
		factorRepo:      factorRepo,
		uow:             uow,
	}
}

// Calculate recomputes factors for the scoped fundamentals: load the
// snapshot rows, attach as-of prices from the daily candles, derive the
// ratio and growth columns and upsert the result.
func (s *factorService) Calculate(ctx context.Context, param dto.CalculateFactorsParam) (dto.BatchResult, error) {
	var result dto.BatchResult

	getParam := model.GetFundamentalsParam{Symbols: param.Symbols}
	if param.Freq != "" {
		freq := model.Freq(param.Freq)
		getParam.Freq = &freq
	}

	funds, err := s.fundamentalRepo.Get(ctx, getParam)
	if err != nil {
		return result, fmt.Errorf("failed to load fundamentals: %w", err)
	}
	if len(funds) == 0 {
		s.log.WarnContext(ctx, "No fundamentals to calculate factors for")
		return result, nil
	}

	symbols, start, end := fundamentalsSpan(funds)
	windowStart := start.Add(-priceLookback)

	candles, err := s.candleRepo.Get(ctx, model.GetCandlesParam{
		Symbols:   symbols,
		Timeframe: common.TIMEFRAME_DAILY,
		Start:     &windowStart,
		End:       &end,
	})
	if err != nil {
		return result, fmt.Errorf("failed to load candles: %w", err)
	}

	priced := factor.AttachPrices(funds, candles)
	factors := factor.Calculate(priced, time.Now())

	for _, f := range factors {
		if f.ErrorMsg != nil {
			s.log.WarnContext(ctx, "Factor row has missing inputs",
				logger.StringField("symbol", f.Symbol),
				logger.TimeField("period_end", f.PeriodEnd),
				logger.StringField("error_msg", *f.ErrorMsg),
			)
		}
	}

	// one recalculation lands atomically
	var upserted int64
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		var upErr error
		upserted, upErr = s.factorRepo.Upsert(ctx, factors, opts...)
		return upErr
	})
	if err != nil {
		return result, fmt.Errorf("failed to upsert factors: %w", err)
	}

	result.Processed = len(symbols)
	result.Upserted = int(upserted)

	s.log.InfoContext(ctx, "Factors calculated",
		logger.IntField("symbols", len(symbols)),
		logger.IntField("rows", len(factors)),
	)
	return result, nil
}

func (s *factorService) Get(ctx context.Context, param model.GetFactorsParam) ([]model.Factor, error) {
	return s.factorRepo.Get(ctx, param)
}

// fundamentalsSpan returns the distinct symbols and the period-end
// bounds of the loaded rows.
func fundamentalsSpan(funds []model.Fundamental) ([]string, time.Time, time.Time) {
	seen := make(map[string]struct{})
	symbols := make([]string, 0)
	start, end := funds[0].PeriodEnd, funds[0].PeriodEnd

	for _, f := range funds {
		if _, ok := seen[f.Symbol]; !ok {
			seen[f.Symbol] = struct{}{}
			symbols = append(symbols, f.Symbol)
		}
		if f.PeriodEnd.Before(start) {
			start = f.PeriodEnd
		}
		if f.PeriodEnd.After(end) {
			end = f.PeriodEnd
		}
	}
	return symbols, start, end
}
