package utils

import "gorm.io/gorm"

// DBOption swaps or refines the session a repository call runs on,
// letting a unit of work hand its transaction to repository methods.
type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// WithTx replaces the session entirely with the given transaction.
func WithTx(tx *gorm.DB) DBOption {
	return func(_ *gorm.DB) *gorm.DB {
		return tx
	}
}
