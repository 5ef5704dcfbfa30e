package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"golang-quant/config"
	"golang-quant/internal/model"
	"golang-quant/pkg/logger"
)

type stubCandleRepository struct {
	latest    *time.Time
	boundsErr error
}

func (s *stubCandleRepository) Upsert(ctx context.Context, candles []model.Candle) (int64, error) {
	return int64(len(candles)), nil
}

func (s *stubCandleRepository) Get(ctx context.Context, param model.GetCandlesParam) ([]model.Candle, error) {
	return nil, nil
}

func (s *stubCandleRepository) GetDateBounds(ctx context.Context, symbols []string, timeframe string) (*time.Time, *time.Time, error) {
	return nil, s.latest, s.boundsErr
}

func noopLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func TestIngestService_PriceRange(t *testing.T) {
	daysAgo := func(n int) *time.Time {
		ts := time.Now().AddDate(0, 0, -n)
		return &ts
	}

	tests := []struct {
		name string
		repo *stubCandleRepository
		want string
	}{
		{name: "no stored candles", repo: &stubCandleRepository{}, want: "10y"},
		{name: "bounds query fails", repo: &stubCandleRepository{boundsErr: errors.New("boom")}, want: "10y"},
		{name: "fresh table tops up", repo: &stubCandleRepository{latest: daysAgo(7)}, want: "3mo"},
		{name: "months old", repo: &stubCandleRepository{latest: daysAgo(200)}, want: "2y"},
		{name: "stale table refetches", repo: &stubCandleRepository{latest: daysAgo(800)}, want: "10y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ingestService{log: noopLogger(), candleRepo: tt.repo}
			got := s.priceRange(context.Background(), []string{"AAA"}, "1d")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIngestService_ForEachSymbolFoldsChunks(t *testing.T) {
	s := &ingestService{
		cfg: &config.Config{Ingest: config.IngestConfig{ChunkSize: 2, MaxConcurrent: 2}},
		log: noopLogger(),
	}

	symbols := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	result, err := s.forEachSymbol(context.Background(), symbols, func(ctx context.Context, symbol string) (int, error) {
		if symbol == "CCC" {
			return 0, errors.New("fetch failed")
		}
		return 2, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 8, result.Upserted)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, "CCC", result.Failures[0].Symbol)
	assert.Equal(t, "fetch failed", result.Failures[0].Err)
}

func TestIngestService_ForEachSymbolStopsOnCancel(t *testing.T) {
	s := &ingestService{
		cfg: &config.Config{Ingest: config.IngestConfig{ChunkSize: 1, MaxConcurrent: 1}},
		log: noopLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	result, err := s.forEachSymbol(ctx, []string{"AAA", "BBB", "CCC"}, func(ctx context.Context, symbol string) (int, error) {
		calls++
		cancel()
		return 1, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.Processed)
}
