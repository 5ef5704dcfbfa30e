package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-quant/config"
	"golang-quant/internal/backtest"
	"golang-quant/internal/dto"
	"golang-quant/internal/model"
	"golang-quant/internal/repository"
	"golang-quant/pkg/common"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/telegram"
	"golang-quant/pkg/utils"
)

// Fallbacks for request fields the caller left zero.
const (
	defaultSampleFreq        = "M"
	defaultRebalanceInterval = 1
	defaultTop               = 3
	defaultMAWindow          = 10
)

var defaultScoreIntervals = []int{1, 3, 6, 12}

type BacktestService interface {
	Run(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error)
	GetRuns(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error)
}

type backtestService struct {
	cfg              *config.Config
	log              *logger.Logger
	candleRepo       repository.CandleRepository
	yahooFinanceRepo repository.YahooFinanceRepository
	backtestRunRepo  repository.BacktestRunRepository
	geminiAIRepo     repository.AIRepository
	notifier         *telegram.Notifier
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	candleRepo repository.CandleRepository,
	yahooFinanceRepo repository.YahooFinanceRepository,
	backtestRunRepo repository.BacktestRunRepository,
	geminiAIRepo repository.AIRepository,
	notifier *telegram.Notifier,
) BacktestService {
	return &backtestService{
		cfg:              cfg,
		log:              log,
		candleRepo:       candleRepo,
		yahooFinanceRepo: yahooFinanceRepo,
		backtestRunRepo:  backtestRunRepo,
		geminiAIRepo:     geminiAIRepo,
		notifier:         notifier,
	}
}

// Run executes one simulation: load monthly bars per ticker, apply the
// strategy's transform pipeline, fold the strategy over the aligned
// panel, summarize and persist the run.
func (s *backtestService) Run(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResponse, error) {
	s.applyDefaults(&req)

	start, end, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	panel, err := s.loadPanel(ctx, req.Tickers)
	if err != nil {
		return nil, err
	}

	var strat backtest.Strategy
	switch req.Strategy {
	case dto.StrategyEqualWeight:
		panel, err = s.equalWeightPipeline(panel, req, start, end)
		strat = backtest.NewEqualWeightStrategy(req.StartBalance, req.RebalanceInterval)
	case dto.StrategyGTAA:
		panel, err = s.gtaaPipeline(panel, req, start, end)
		strat = backtest.NewGTAAStrategy(req.StartBalance, req.Top, req.MAWindow)
	default:
		return nil, fmt.Errorf("unknown strategy %q", req.Strategy)
	}
	if err != nil {
		return nil, err
	}

	curve, err := strat.Run(panel)
	if err != nil {
		return nil, fmt.Errorf("strategy run failed: %w", err)
	}

	summary, err := backtest.Summarize(curve, req.SampleFreq)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize curve: %w", err)
	}

	resp := &dto.BacktestResponse{
		Request: req,
		Curve:   curve.Points(),
		Summary: summary,
	}

	if req.Narrate {
		narrative, err := s.geminiAIRepo.NarrateBacktest(ctx, req, summary)
		if err != nil {
			// narration is best effort, the run result stands on its own
			s.log.WarnContext(ctx, "Narration failed", logger.ErrorField(err))
		} else {
			resp.Narrative = &narrative
		}
	}

	run, err := s.persistRun(ctx, req, resp, start, end)
	if err != nil {
		return nil, err
	}
	resp.RunID = run.ID

	s.notifyRunDone(ctx, req, summary)

	s.log.InfoContext(ctx, "Backtest finished",
		logger.StringField("strategy", req.Strategy),
		logger.IntField("steps", summary.Steps),
		logger.Float64Field("end_balance", summary.EndBalance),
	)
	return resp, nil
}

func (s *backtestService) GetRuns(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error) {
	return s.backtestRunRepo.Get(ctx, param)
}

func (s *backtestService) applyDefaults(req *dto.BacktestRequest) {
	if req.StartBalance == 0 {
		req.StartBalance = s.cfg.Backtest.DefaultStartBalance
	}
	if req.SampleFreq == "" {
		req.SampleFreq = defaultSampleFreq
	}
	if req.RebalanceInterval == 0 {
		req.RebalanceInterval = defaultRebalanceInterval
	}
	if req.Top == 0 {
		req.Top = defaultTop
	}
	if req.MAWindow == 0 {
		req.MAWindow = defaultMAWindow
	}
	if len(req.ScoreIntervals) == 0 {
		req.ScoreIntervals = defaultScoreIntervals
	}
}

func (s *backtestService) validate(req dto.BacktestRequest) (time.Time, time.Time, error) {
	var zero time.Time

	if len(req.Tickers) > s.cfg.Backtest.MaxTickers {
		return zero, zero, fmt.Errorf("too many tickers: %d given, max %d", len(req.Tickers), s.cfg.Backtest.MaxTickers)
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return zero, zero, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return zero, zero, fmt.Errorf("invalid end_date: %w", err)
	}
	if !end.After(start) {
		return zero, zero, fmt.Errorf("end_date must be after start_date")
	}
	return start, end, nil
}

// loadPanel builds one monthly series per ticker, pulling bars from
// Yahoo when the database has none for a symbol.
func (s *backtestService) loadPanel(ctx context.Context, tickers []string) (backtest.Panel, error) {
	candles, err := s.candleRepo.Get(ctx, model.GetCandlesParam{
		Symbols:   tickers,
		Timeframe: common.TIMEFRAME_MONTHLY,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load candles: %w", err)
	}

	bySymbol := make(map[string][]model.Candle, len(tickers))
	for _, c := range candles {
		bySymbol[c.Symbol] = append(bySymbol[c.Symbol], c)
	}

	panel := make(backtest.Panel, 0, len(tickers))
	for _, ticker := range tickers {
		bars := bySymbol[ticker]
		if len(bars) == 0 {
			bars, err = s.fetchAndStoreBars(ctx, ticker)
			if err != nil {
				return nil, err
			}
		}
		if len(bars) == 0 {
			return nil, fmt.Errorf("no price history for %s", ticker)
		}
		panel = append(panel, backtest.NewSeries(ticker, bars))
	}
	return panel, nil
}

func (s *backtestService) fetchAndStoreBars(ctx context.Context, ticker string) ([]model.Candle, error) {
	s.log.InfoContext(ctx, "No stored bars, fetching from provider",
		logger.StringField("symbol", ticker))

	bars, err := s.yahooFinanceRepo.GetBars(ctx, repository.GetBarsParam{
		Symbol:    ticker,
		Timeframe: common.TIMEFRAME_MONTHLY,
		Range:     "max",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", ticker, err)
	}
	if len(bars) > 0 {
		if _, err := s.candleRepo.Upsert(ctx, bars); err != nil {
			return nil, fmt.Errorf("failed to store bars for %s: %w", ticker, err)
		}
	}
	return bars, nil
}

func (s *backtestService) equalWeightPipeline(panel backtest.Panel, req dto.BacktestRequest, start, end time.Time) (backtest.Panel, error) {
	panel, err := samplePanel(panel, req.SampleFreq)
	if err != nil {
		return nil, err
	}
	panel, err = backtest.AlignByDateIntersection(panel)
	if err != nil {
		return nil, err
	}
	return backtest.SliceByDate(panel, &start, &end), nil
}

func (s *backtestService) gtaaPipeline(panel backtest.Panel, req dto.BacktestRequest, start, end time.Time) (backtest.Panel, error) {
	panel, err := samplePanel(panel, req.SampleFreq)
	if err != nil {
		return nil, err
	}
	panel = backtest.AddMovingAverages(panel, req.MAWindow)
	panel = backtest.AddIntervalReturns(panel, req.ScoreIntervals)
	panel, err = backtest.AddAvgScore(panel, req.ScoreIntervals)
	if err != nil {
		return nil, err
	}
	panel, err = backtest.AlignByDateIntersection(panel)
	if err != nil {
		return nil, err
	}
	panel = backtest.SliceByDate(panel, &start, &end)
	if req.RebalanceInterval > 1 {
		return backtest.SelectRowsByIntervalWithEnds(panel, req.RebalanceInterval)
	}
	return panel, nil
}

// samplePanel reduces each series to one row per sample bucket. Daily
// sampling keeps the series as-is.
func samplePanel(panel backtest.Panel, freq string) (backtest.Panel, error) {
	switch freq {
	case "D":
		return panel, nil
	case "M":
		return backtest.FilterPeriodEnds(panel, backtest.SampleMonthEnd)
	case "Y":
		return backtest.FilterPeriodEnds(panel, backtest.SampleYearEnd)
	default:
		return nil, fmt.Errorf("unknown sample freq %q", freq)
	}
}

func (s *backtestService) persistRun(ctx context.Context, req dto.BacktestRequest, resp *dto.BacktestResponse, start, end time.Time) (*model.BacktestRun, error) {
	tickers, err := json.Marshal(req.Tickers)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	curve, err := json.Marshal(resp.Curve)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(resp.Summary)
	if err != nil {
		return nil, err
	}

	run := &model.BacktestRun{
		Name:         req.Name,
		Strategy:     req.Strategy,
		Tickers:      tickers,
		Params:       params,
		StartDate:    start,
		EndDate:      end,
		StartBalance: resp.Summary.StartBalance,
		EndBalance:   resp.Summary.EndBalance,
		EquityCurve:  curve,
		Summary:      summary,
		Narrative:    resp.Narrative,
	}
	if err := s.backtestRunRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist backtest run: %w", err)
	}
	return run, nil
}

func (s *backtestService) notifyRunDone(ctx context.Context, req dto.BacktestRequest, summary dto.PerformanceSummary) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("Backtest *%s* done: total return %s, max drawdown %s over %d steps",
		req.Strategy,
		utils.FormatPercentage(summary.TotalReturn),
		utils.FormatPercentage(summary.MaxDrawdown),
		summary.Steps,
	)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.WarnContext(ctx, "Failed to send run notification", logger.ErrorField(err))
	}
}
