package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/datatypes"

	"golang.org/x/sync/errgroup"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/internal/extract"
	"golang-quant/internal/model"
	"golang-quant/internal/repository"
	"golang-quant/pkg/common"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"
)

const defaultPriceRange = "10y"

type IngestService interface {
	IngestListings(ctx context.Context) (dto.BatchResult, error)
	IngestProfiles(ctx context.Context, symbols []string) (dto.BatchResult, error)
	IngestPrices(ctx context.Context, param dto.IngestPricesParam) (dto.BatchResult, error)
	IngestFundamentals(ctx context.Context, param dto.IngestFundamentalsParam) (dto.BatchResult, error)
}

type ingestService struct {
	cfg              *config.Config
	log              *logger.Logger
	nyseRepo         repository.NYSERepository
	yahooFinanceRepo repository.YahooFinanceRepository
	listingRepo      repository.ListingRepository
	candleRepo       repository.CandleRepository
	fundamentalRepo  repository.FundamentalRepository
}

func NewIngestService(
	cfg *config.Config,
	log *logger.Logger,
	nyseRepo repository.NYSERepository,
	yahooFinanceRepo repository.YahooFinanceRepository,
	listingRepo repository.ListingRepository,
	candleRepo repository.CandleRepository,
	fundamentalRepo repository.FundamentalRepository,
) IngestService {
	return &ingestService{
		cfg:              cfg,
		log:              log,
		nyseRepo:         nyseRepo,
		yahooFinanceRepo: yahooFinanceRepo,
		listingRepo:      listingRepo,
		candleRepo:       candleRepo,
		fundamentalRepo:  fundamentalRepo,
	}
}

// IngestListings scrapes the NYSE directory for both stocks and ETFs
// and upserts the result. A failed kind is recorded and the other kind
// still runs.
func (s *ingestService) IngestListings(ctx context.Context) (dto.BatchResult, error) {
	var result dto.BatchResult

	for _, kind := range []string{common.KIND_STOCK, common.KIND_ETF} {
		result.Processed++

		listings, err := s.nyseRepo.GetListings(ctx, kind)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to scrape listings",
				logger.StringField("kind", kind), logger.ErrorField(err))
			result.AddFailure(kind, err)
			continue
		}

		upserted, err := s.listingRepo.Upsert(ctx, listings)
		if err != nil {
			result.AddFailure(kind, err)
			continue
		}
		result.Upserted += int(upserted)

		s.log.InfoContext(ctx, "Listings ingested",
			logger.StringField("kind", kind),
			logger.IntField("count", len(listings)),
		)
	}

	return result, nil
}

// IngestProfiles fetches the quoteSummary profile for each symbol and
// stores it, marking symbols Yahoo does not know as not_found.
func (s *ingestService) IngestProfiles(ctx context.Context, symbols []string) (dto.BatchResult, error) {
	symbols, err := s.resolveSymbols(ctx, symbols)
	if err != nil {
		return dto.BatchResult{}, err
	}

	return s.forEachSymbol(ctx, symbols, func(ctx context.Context, symbol string) (int, error) {
		now := time.Now()
		summary, err := s.yahooFinanceRepo.GetProfile(ctx, symbol)
		if err != nil {
			profile := &model.AssetProfile{
				Symbol:          symbol,
				Status:          model.ProfileStatusNotFound,
				ErrorMsg:        utils.ToPointer(err.Error()),
				LastCollectedAt: now,
			}
			if upErr := s.listingRepo.UpsertProfile(ctx, profile); upErr != nil {
				return 0, upErr
			}
			return 0, err
		}

		profile, err := profileFromSummary(symbol, summary, now)
		if err != nil {
			return 0, err
		}
		if err := s.listingRepo.UpsertProfile(ctx, profile); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

// IngestPrices pulls daily (or monthly) bars per symbol and upserts
// them. Symbols run in parallel; bars within a symbol stay ordered.
func (s *ingestService) IngestPrices(ctx context.Context, param dto.IngestPricesParam) (dto.BatchResult, error) {
	symbols, err := s.resolveSymbols(ctx, param.Symbols)
	if err != nil {
		return dto.BatchResult{}, err
	}

	timeframe := param.Timeframe
	if timeframe == "" {
		timeframe = common.TIMEFRAME_DAILY
	}
	dataRange := param.Range
	if dataRange == "" {
		dataRange = s.priceRange(ctx, symbols, timeframe)
	}

	return s.forEachSymbol(ctx, symbols, func(ctx context.Context, symbol string) (int, error) {
		var candles []model.Candle
		err := s.withRetry(ctx, symbol, func() error {
			var fetchErr error
			candles, fetchErr = s.yahooFinanceRepo.GetBars(ctx, repository.GetBarsParam{
				Symbol:    symbol,
				Timeframe: timeframe,
				Range:     dataRange,
			})
			return fetchErr
		})
		if err != nil {
			return 0, err
		}
		if len(candles) == 0 {
			s.log.WarnContext(ctx, "No bars returned", logger.StringField("symbol", symbol))
			return 0, nil
		}

		upserted, err := s.candleRepo.Upsert(ctx, candles)
		if err != nil {
			return 0, err
		}
		return int(upserted), nil
	})
}

// priceRange picks how far back to fetch when the caller did not say.
// A recently topped-up candle table only needs the trailing window; an
// empty or stale one gets the full default range.
func (s *ingestService) priceRange(ctx context.Context, symbols []string, timeframe string) string {
	_, latest, err := s.candleRepo.GetDateBounds(ctx, symbols, timeframe)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to read candle bounds", logger.ErrorField(err))
		return defaultPriceRange
	}
	if latest == nil {
		return defaultPriceRange
	}

	switch age := time.Since(*latest); {
	case age <= 35*24*time.Hour:
		return "3mo"
	case age <= 365*24*time.Hour:
		return "2y"
	default:
		return defaultPriceRange
	}
}

// IngestFundamentals fetches the statement tables per symbol, extracts
// the fixed snapshot columns and upserts the rows. An empty statement
// set is a warning, not a failure.
func (s *ingestService) IngestFundamentals(ctx context.Context, param dto.IngestFundamentalsParam) (dto.BatchResult, error) {
	symbols, err := s.resolveSymbols(ctx, param.Symbols)
	if err != nil {
		return dto.BatchResult{}, err
	}

	freqs := []model.Freq{model.FreqAnnual, model.FreqQuarterly}
	if param.Freq != "" {
		if !utils.ContainsString([]string{string(model.FreqAnnual), string(model.FreqQuarterly)}, param.Freq) {
			return dto.BatchResult{}, fmt.Errorf("unknown freq: %s", param.Freq)
		}
		freqs = []model.Freq{model.Freq(param.Freq)}
	}

	return s.forEachSymbol(ctx, symbols, func(ctx context.Context, symbol string) (int, error) {
		total := 0
		for _, freq := range freqs {
			var set dto.StatementSet
			err := s.withRetry(ctx, symbol, func() error {
				var fetchErr error
				set, fetchErr = s.yahooFinanceRepo.GetStatements(ctx, symbol, freq)
				return fetchErr
			})
			if err != nil {
				return total, err
			}

			rows := extract.Rows(symbol, freq, set, time.Now())
			if len(rows) == 0 {
				s.log.WarnContext(ctx, "Empty statement set",
					logger.StringField("symbol", symbol),
					logger.StringField("freq", string(freq)),
				)
				continue
			}

			upserted, err := s.fundamentalRepo.Upsert(ctx, rows)
			if err != nil {
				return total, err
			}
			total += int(upserted)
		}
		return total, nil
	})
}

// forEachSymbol walks the symbols chunk by chunk, fanning each chunk
// out over an errgroup worker pool, and folds the per-symbol outcomes
// into one BatchResult. Worker errors become recorded failures, not
// batch errors.
func (s *ingestService) forEachSymbol(ctx context.Context, symbols []string, fn func(ctx context.Context, symbol string) (int, error)) (dto.BatchResult, error) {
	var result dto.BatchResult

	chunkSize := s.cfg.Ingest.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(symbols)
	}

	for offset := 0; offset < len(symbols); offset += chunkSize {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		end := offset + chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}

		var (
			mu    sync.Mutex
			chunk dto.BatchResult
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Ingest.MaxConcurrent)

		for _, symbol := range symbols[offset:end] {
			symbol := symbol
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				upserted, err := fn(gctx, symbol)

				mu.Lock()
				chunk.Processed++
				chunk.Upserted += upserted
				if err != nil {
					chunk.AddFailure(symbol, err)
				}
				mu.Unlock()

				if err != nil {
					s.log.ErrorContext(gctx, "Symbol ingestion failed",
						logger.StringField("symbol", symbol), logger.ErrorField(err))
				}
				return nil
			})
		}

		err := g.Wait()
		result.Merge(chunk)
		if err != nil {
			return result, err
		}

		s.log.InfoContext(ctx, "Chunk done",
			logger.IntField("done", end),
			logger.IntField("total", len(symbols)),
		)
	}

	if len(result.Failures) > 0 {
		s.log.WarnContext(ctx, "Batch finished with failures",
			logger.IntField("processed", result.Processed),
			logger.IntField("failed", len(result.Failures)),
		)
	}
	return result, nil
}

// withRetry retries transient fetch errors with exponential backoff
// and jitter.
func (s *ingestService) withRetry(ctx context.Context, symbol string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.cfg.Ingest.MaxRetry; attempt++ {
		if attempt > 0 {
			backoff := s.cfg.Ingest.SleepBetween * time.Duration(1<<(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			s.log.WarnContext(ctx, "Retrying fetch",
				logger.StringField("symbol", symbol),
				logger.IntField("attempt", attempt),
				logger.ErrorField(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("exhausted %d retries: %w", s.cfg.Ingest.MaxRetry, err)
}

// resolveSymbols falls back to the stored listings when the caller did
// not name symbols explicitly.
func (s *ingestService) resolveSymbols(ctx context.Context, symbols []string) ([]string, error) {
	if len(symbols) > 0 {
		return symbols, nil
	}

	listings, err := s.listingRepo.Get(ctx, model.GetListingsParam{})
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no symbols given and no listings stored, run listings ingestion first")
	}

	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Symbol)
	}
	return out, nil
}

func profileFromSummary(symbol string, summary *dto.YahooQuoteSummaryResponse, collectedAt time.Time) (*model.AssetProfile, error) {
	profile := &model.AssetProfile{
		Symbol:          symbol,
		Status:          model.ProfileStatusOK,
		LastCollectedAt: collectedAt,
	}

	results := summary.QuoteSummary.Result
	if len(results) == 0 {
		profile.Status = model.ProfileStatusNotFound
		return profile, nil
	}

	r := results[0]
	if r.QuoteType != nil {
		profile.QuoteType = r.QuoteType.QuoteType
		profile.Exchange = r.QuoteType.Exchange
	}
	if r.AssetProfile != nil {
		profile.Sector = r.AssetProfile.Sector
		profile.Industry = r.AssetProfile.Industry
		profile.Country = r.AssetProfile.Country
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	profile.Raw = datatypes.JSON(raw)
	return profile, nil
}
