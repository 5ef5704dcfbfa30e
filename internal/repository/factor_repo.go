package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-quant/internal/model"
	"golang-quant/pkg/utils"
)

type FactorRepository interface {
	Upsert(ctx context.Context, rows []model.Factor, opts ...utils.DBOption) (int64, error)
	Get(ctx context.Context, param model.GetFactorsParam) ([]model.Factor, error)
}

type factorRepository struct {
	db *gorm.DB
}

func NewFactorRepository(db *gorm.DB) FactorRepository {
	return &factorRepository{db: db}
}

func (r *factorRepository) Upsert(ctx context.Context, rows []model.Factor, opts ...utils.DBOption) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx := utils.ApplyOptions(r.db, opts...).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "freq"}, {Name: "period_end"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "market_cap", "enterprise_value",
			"psr", "gpa", "por", "ev_ebit", "per", "pbr", "pcr", "pfcr",
			"current_ratio", "debt_ratio", "liquidation_value",
			"roe", "roa", "asset_turnover", "dividend_payout",
			"op_income_growth", "asset_growth", "debt_growth", "shares_growth",
			"interest_coverage",
			"error_msg", "last_calculated_at", "updated_at",
		}),
	}).CreateInBatches(rows, 200)
	return tx.RowsAffected, tx.Error
}

func (r *factorRepository) Get(ctx context.Context, param model.GetFactorsParam) ([]model.Factor, error) {
	var rows []model.Factor

	q := r.db.WithContext(ctx).Model(&model.Factor{})
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
	if param.Limit != nil {
		q = q.Limit(*param.Limit)
	}

	err := q.Order("symbol ASC, freq ASC, period_end ASC").Find(&rows).Error
	return rows, err
}
