package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-quant/internal/model"
)

type BacktestRunRepository interface {
	Create(ctx context.Context, run *model.BacktestRun) error
	Get(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *gorm.DB
}

func NewBacktestRunRepository(db *gorm.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Create(ctx context.Context, run *model.BacktestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *backtestRunRepository) Get(ctx context.Context, param model.GetBacktestRunsParam) ([]model.BacktestRun, error) {
	var runs []model.BacktestRun

	q := r.db.WithContext(ctx).Model(&model.BacktestRun{})
	if len(param.IDs) > 0 {
		q = q.Where("id IN ?", param.IDs)
	}
	if param.Strategy != nil {
		q = q.Where("strategy = ?", *param.Strategy)
	}
	if param.Limit != nil {
		q = q.Limit(*param.Limit)
	}

	err := q.Order("created_at DESC").Find(&runs).Error
	return runs, err
}
