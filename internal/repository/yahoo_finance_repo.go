package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"golang-quant/config"
	"golang-quant/internal/dto"
	"golang-quant/internal/model"
	"golang-quant/pkg/httpclient"
	"golang-quant/pkg/logger"
	"golang-quant/pkg/utils"
)

type GetBarsParam struct {
	Symbol    string
	Timeframe string
	Range     string
}

type YahooFinanceRepository interface {
	GetBars(ctx context.Context, param GetBarsParam) ([]model.Candle, error)
	GetStatements(ctx context.Context, symbol string, freq model.Freq) (dto.StatementSet, error)
	GetProfile(ctx context.Context, symbol string) (*dto.YahooQuoteSummaryResponse, error)
}

type yahooFinanceRepository struct {
	chartClient        httpclient.HTTPClient
	timeseriesClient   httpclient.HTTPClient
	quoteSummaryClient httpclient.HTTPClient
	cfg                *config.Config
	logger             *logger.Logger
	requestLimiter     *rate.Limiter
	mu                 sync.Mutex
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		chartClient:        httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout, ""),
		timeseriesClient:   httpclient.New(cfg.YahooFinance.BaseURLTimeseries, cfg.YahooFinance.Timeout, ""),
		quoteSummaryClient: httpclient.New(cfg.YahooFinance.BaseURLQuoteSummary, cfg.YahooFinance.Timeout, ""),
		cfg:                cfg,
		logger:             log,
		requestLimiter:     requestLimiter,
		mu:                 sync.Mutex{},
	}
}

func browserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Connection":      "keep-alive",
		"Referer":         "https://finance.yahoo.com/",
	}
}

func (r *yahooFinanceRepository) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.requestLimiter.Allow() {
		r.logger.WarnContext(ctx, "yahoo finance request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
		)
	}
	return r.requestLimiter.Wait(ctx)
}

func (r *yahooFinanceRepository) GetBars(ctx context.Context, param GetBarsParam) ([]model.Candle, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	period1, period2 := rangeToUnix(param.Range)
	if period1 == 0 || period2 == 0 {
		return nil, fmt.Errorf("invalid range: %s", param.Range)
	}

	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       param.Timeframe,
		"includePrePost": "false",
		"events":         "div",
	}

	var chartResp dto.YahooChartResponse
	resp, err := r.chartClient.Get(ctx, "/"+param.Symbol, queryParams, browserHeaders(), &chartResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars from yahoo finance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("yahoo finance chart API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", param.Symbol))
		return nil, fmt.Errorf("yahoo finance chart api returned status: %d", resp.StatusCode)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance chart api error: %v", chartResp.Chart.Error)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data returned for symbol: %s", param.Symbol)
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data available for symbol: %s", param.Symbol)
	}
	quote := result.Indicators.Quote[0]

	dividendByDay := make(map[string]float64)
	if result.Events != nil {
		for _, d := range result.Events.Dividends {
			day := utils.DateOnly(time.Unix(d.Date, 0).UTC())
			dividendByDay[day.Format(utils.DateLayout)] += d.Amount
		}
	}

	var candles []model.Candle
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		day := utils.DateOnly(time.Unix(ts, 0).UTC())
		candle := model.Candle{
			Symbol:    param.Symbol,
			Timeframe: param.Timeframe,
			Date:      day,
			Close:     *quote.Close[i],
			Dividends: dividendByDay[day.Format(utils.DateLayout)],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func (r *yahooFinanceRepository) GetStatements(ctx context.Context, symbol string, freq model.Freq) (dto.StatementSet, error) {
	set := dto.NewStatementSet(symbol, string(freq))

	if err := r.wait(ctx); err != nil {
		return set, err
	}

	types := statementTypes(freq)
	now := time.Now()
	queryParams := map[string]string{
		"symbol":  symbol,
		"type":    strings.Join(types, ","),
		"period1": fmt.Sprintf("%d", now.AddDate(-15, 0, 0).Unix()),
		"period2": fmt.Sprintf("%d", now.Unix()),
		"merge":   "false",
	}

	var tsResp dto.YahooTimeseriesResponse
	resp, err := r.timeseriesClient.Get(ctx, "/"+symbol, queryParams, browserHeaders(), &tsResp)
	if err != nil {
		return set, fmt.Errorf("failed to fetch statements from yahoo finance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("yahoo finance timeseries API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return set, fmt.Errorf("yahoo finance timeseries api returned status: %d", resp.StatusCode)
	}
	if tsResp.Timeseries.Error != nil {
		return set, fmt.Errorf("yahoo finance timeseries api error: %v", tsResp.Timeseries.Error)
	}

	for _, result := range tsResp.Timeseries.Result {
		for typeName, values := range result.Series {
			concept := strings.TrimPrefix(typeName, string(freq))
			label := camelToLabel(concept)
			table := tableForConcept(set, concept)

			for _, v := range values {
				if v == nil || v.ReportedValue.Raw == nil {
					continue
				}
				period, err := time.Parse(utils.DateLayout, v.AsOfDate)
				if err != nil {
					continue
				}
				table.Set(label, period.UTC(), *v.ReportedValue.Raw)
				if set.Currency == "" && v.CurrencyCode != "" {
					set.Currency = v.CurrencyCode
				}
			}
		}
	}

	return set, nil
}

func (r *yahooFinanceRepository) GetProfile(ctx context.Context, symbol string) (*dto.YahooQuoteSummaryResponse, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"modules": "assetProfile,quoteType",
	}

	var summary dto.YahooQuoteSummaryResponse
	resp, err := r.quoteSummaryClient.Get(ctx, "/"+symbol, queryParams, browserHeaders(), &summary)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile from yahoo finance: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo finance quote summary api returned status: %d", resp.StatusCode)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo finance quote summary api error: %v", summary.QuoteSummary.Error)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no profile returned for symbol: %s", symbol)
	}

	return &summary, nil
}

// rangeToUnix maps a lookback range to a [period1, period2] unix pair
// ending now.
func rangeToUnix(rangeStr string) (int64, int64) {
	now := time.Now()
	years := map[string]int{
		"1y":  1,
		"2y":  2,
		"5y":  5,
		"10y": 10,
		"15y": 15,
		"max": 50,
	}
	y, ok := years[rangeStr]
	if !ok {
		return 0, 0
	}
	return now.AddDate(-y, 0, 0).Unix(), now.Unix()
}
