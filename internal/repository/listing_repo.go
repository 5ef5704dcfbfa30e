package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-quant/internal/model"
)

type ListingRepository interface {
	Upsert(ctx context.Context, listings []model.Listing) (int64, error)
	Get(ctx context.Context, param model.GetListingsParam) ([]model.Listing, error)
	UpsertProfile(ctx context.Context, profile *model.AssetProfile) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Upsert(ctx context.Context, listings []model.Listing) (int64, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "updated_at"}),
	}).CreateInBatches(listings, 500)
	return tx.RowsAffected, tx.Error
}

func (r *listingRepository) Get(ctx context.Context, param model.GetListingsParam) ([]model.Listing, error) {
	var listings []model.Listing

	q := r.db.WithContext(ctx).Model(&model.Listing{})
	if len(param.Symbols) > 0 {
		q = q.Where("symbol IN ?", param.Symbols)
	}
	if param.Kind != nil {
		q = q.Where("kind = ?", *param.Kind)
	}
	if param.Limit != nil {
		q = q.Limit(*param.Limit)
	}

	err := q.Order("symbol ASC").Find(&listings).Error
	return listings, err
}

func (r *listingRepository) UpsertProfile(ctx context.Context, profile *model.AssetProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "quote_type", "exchange", "sector", "industry", "country",
			"raw", "status", "error_msg", "last_collected_at", "updated_at",
		}),
	}).Create(profile).Error
}
