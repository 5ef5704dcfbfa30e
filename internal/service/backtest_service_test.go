package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-quant/config"
	"golang-quant/internal/backtest"
	"golang-quant/internal/dto"
	"golang-quant/internal/model"
)

func testPanel(t *testing.T, dates []time.Time, closes map[string][]float64) backtest.Panel {
	t.Helper()
	panel := make(backtest.Panel, 0, len(closes))
	for _, symbol := range []string{"AAA", "BBB"} {
		values, ok := closes[symbol]
		if !ok {
			continue
		}
		candles := make([]model.Candle, len(dates))
		for i, d := range dates {
			candles[i] = model.Candle{Symbol: symbol, Date: d, Close: values[i]}
		}
		panel = append(panel, backtest.NewSeries(symbol, candles))
	}
	return panel
}

func TestBacktestService_ApplyDefaults(t *testing.T) {
	s := &backtestService{cfg: &config.Config{
		Backtest: config.BacktestConfig{DefaultStartBalance: 10000, MaxTickers: 20},
	}}

	req := dto.BacktestRequest{Strategy: dto.StrategyGTAA}
	s.applyDefaults(&req)

	assert.Equal(t, float64(10000), req.StartBalance)
	assert.Equal(t, "M", req.SampleFreq)
	assert.Equal(t, 1, req.RebalanceInterval)
	assert.Equal(t, 3, req.Top)
	assert.Equal(t, 10, req.MAWindow)
	assert.Equal(t, []int{1, 3, 6, 12}, req.ScoreIntervals)

	// explicit values survive
	req = dto.BacktestRequest{StartBalance: 500, SampleFreq: "D", Top: 5}
	s.applyDefaults(&req)
	assert.Equal(t, float64(500), req.StartBalance)
	assert.Equal(t, "D", req.SampleFreq)
	assert.Equal(t, 5, req.Top)
}

func TestBacktestService_Validate(t *testing.T) {
	s := &backtestService{cfg: &config.Config{
		Backtest: config.BacktestConfig{MaxTickers: 2},
	}}

	tests := []struct {
		name    string
		req     dto.BacktestRequest
		wantErr string
	}{
		{
			name: "valid window",
			req:  dto.BacktestRequest{Tickers: []string{"AAA"}, StartDate: "2020-01-01", EndDate: "2021-01-01"},
		},
		{
			name:    "too many tickers",
			req:     dto.BacktestRequest{Tickers: []string{"A", "B", "C"}, StartDate: "2020-01-01", EndDate: "2021-01-01"},
			wantErr: "too many tickers",
		},
		{
			name:    "end before start",
			req:     dto.BacktestRequest{Tickers: []string{"AAA"}, StartDate: "2021-01-01", EndDate: "2020-01-01"},
			wantErr: "end_date must be after start_date",
		},
		{
			name:    "bad date",
			req:     dto.BacktestRequest{Tickers: []string{"AAA"}, StartDate: "01/01/2020", EndDate: "2021-01-01"},
			wantErr: "invalid start_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := s.validate(tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, end.After(start))
		})
	}
}

func TestSamplePanel(t *testing.T) {
	dates := []time.Time{
		time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 28, 0, 0, 0, 0, time.UTC),
	}
	panel := testPanel(t, dates, map[string][]float64{"AAA": {10, 11, 12}})

	t.Run("daily keeps all rows", func(t *testing.T) {
		got, err := samplePanel(panel, "D")
		require.NoError(t, err)
		assert.Equal(t, 3, got[0].Len())
	})

	t.Run("monthly keeps last row per month", func(t *testing.T) {
		got, err := samplePanel(panel, "M")
		require.NoError(t, err)
		require.Equal(t, 2, got[0].Len())
		assert.Equal(t, []float64{11, 12}, got[0].Close)
	})

	t.Run("unknown freq errors", func(t *testing.T) {
		_, err := samplePanel(panel, "W")
		assert.Error(t, err)
	})
}

func TestFundamentalsSpan(t *testing.T) {
	jan := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	funds := []model.Fundamental{
		{Symbol: "BBB", PeriodEnd: jun},
		{Symbol: "AAA", PeriodEnd: dec},
		{Symbol: "BBB", PeriodEnd: jan},
	}

	symbols, start, end := fundamentalsSpan(funds)

	assert.Equal(t, []string{"BBB", "AAA"}, symbols)
	assert.Equal(t, jan, start)
	assert.Equal(t, dec, end)
}
