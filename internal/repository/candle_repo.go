package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-quant/internal/model"
)

type CandleRepository interface {
	Upsert(ctx context.Context, candles []model.Candle) (int64, error)
	Get(ctx context.Context, param model.GetCandlesParam) ([]model.Candle, error)
	GetDateBounds(ctx context.Context, symbols []string, timeframe string) (*time.Time, *time.Time, error)
}

type candleRepository struct {
	db *gorm.DB
}

func NewCandleRepository(db *gorm.DB) CandleRepository {
	return &candleRepository{db: db}
}

func (r *candleRepository) Upsert(ctx context.Context, candles []model.Candle) (int64, error) {
	if len(candles) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "timeframe"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open", "high", "low", "close", "volume", "dividends", "updated_at",
		}),
	}).CreateInBatches(candles, 500)
	return tx.RowsAffected, tx.Error
}

func (r *candleRepository) Get(ctx context.Context, param model.GetCandlesParam) ([]model.Candle, error) {
	var candles []model.Candle

	q := r.db.WithContext(ctx).Model(&model.Candle{})
	if len(param.Symbols) > 0 {
		q = q.Where("symbol IN ?", param.Symbols)
	}
	if param.Timeframe != "" {
		q = q.Where("timeframe = ?", param.Timeframe)
	}
	if param.Start != nil {
		q = q.Where("date >= ?", *param.Start)
	}
	if param.End != nil {
		q = q.Where("date <= ?", *param.End)
	}

	err := q.Order("symbol ASC, date ASC").Find(&candles).Error
	return candles, err
}

func (r *candleRepository) GetDateBounds(ctx context.Context, symbols []string, timeframe string) (*time.Time, *time.Time, error) {
	type bounds struct {
		MinDate *time.Time
		MaxDate *time.Time
	}
	var b bounds

	q := r.db.WithContext(ctx).Model(&model.Candle{}).
		Select("MIN(date) AS min_date, MAX(date) AS max_date").
		Where("timeframe = ?", timeframe)
	if len(symbols) > 0 {
		q = q.Where("symbol IN ?", symbols)
	}

	if err := q.Scan(&b).Error; err != nil {
		return nil, nil, err
	}
	return b.MinDate, b.MaxDate, nil
}
