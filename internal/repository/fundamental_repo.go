package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-quant/internal/model"
)

type FundamentalRepository interface {
	Upsert(ctx context.Context, rows []model.Fundamental) (int64, error)
	Get(ctx context.Context, param model.GetFundamentalsParam) ([]model.Fundamental, error)
	GetSymbols(ctx context.Context, freq *model.Freq) ([]string, error)
}

type fundamentalRepository struct {
	db *gorm.DB
}

func NewFundamentalRepository(db *gorm.DB) FundamentalRepository {
	return &fundamentalRepository{db: db}
}

func (r *fundamentalRepository) Upsert(ctx context.Context, rows []model.Fundamental) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "freq"}, {Name: "period_end"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"currency",
			"total_revenue", "gross_profit", "operating_income", "ebit", "net_income",
			"total_assets", "current_assets", "total_liabilities", "current_liabilities",
			"total_debt", "net_assets",
			"operating_cash_flow", "free_cash_flow", "capital_expenditure",
			"cash_and_equivalents",
			"dividends_paid", "shares_outstanding",
			"source", "last_collected_at", "error_msg", "updated_at",
		}),
	}).CreateInBatches(rows, 200)
	return tx.RowsAffected, tx.Error
}

func (r *fundamentalRepository) Get(ctx context.Context, param model.GetFundamentalsParam) ([]model.Fundamental, error) {
	var rows []model.Fundamental

	q := r.db.WithContext(ctx).Model(&model.Fundamental{})
	if len(param.Symbols) > 0 {
		q = q.Where("symbol IN ?", param.Symbols)
	}
	if param.Freq != nil {
		q = q.Where("freq = ?", *param.Freq)
	}
	if param.Start != nil {
		q = q.Where("period_end >= ?", *param.Start)
	}
	if param.End != nil {
		q = q.Where("period_end <= ?", *param.End)
	}

	err := q.Order("symbol ASC, freq ASC, period_end ASC").Find(&rows).Error
	return rows, err
}

func (r *fundamentalRepository) GetSymbols(ctx context.Context, freq *model.Freq) ([]string, error) {
	var symbols []string
	q := r.db.WithContext(ctx).Model(&model.Fundamental{}).Distinct("symbol")
	if freq != nil {
		q = q.Where("freq = ?", *freq)
	}
	err := q.Order("symbol ASC").Pluck("symbol", &symbols).Error
	return symbols, err
}
