package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"golang-quant/internal/model"
	"golang-quant/pkg/utils"
)

// openCountingDB opens a dialector-less gorm session whose create
// callback only counts invocations, so tests can observe which
// session a repository call actually ran on.
func openCountingDB(t *testing.T, creates *int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		SkipDefaultTransaction: true,
		DryRun:                 true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Callback().Create().Replace("gorm:create", func(*gorm.DB) {
		*creates++
	}))
	return db
}

func TestFactorRepositoryUpsertUsesGivenSession(t *testing.T) {
	var baseCreates, txCreates int
	base := openCountingDB(t, &baseCreates)
	tx := openCountingDB(t, &txCreates)

	repo := NewFactorRepository(base)
	rows := []model.Factor{{
		Symbol:    "AAA",
		Freq:      model.FreqAnnual,
		PeriodEnd: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}}

	_, err := repo.Upsert(context.Background(), rows, utils.WithTx(tx))
	require.NoError(t, err)
	require.Equal(t, 1, txCreates)
	require.Zero(t, baseCreates)

	_, err = repo.Upsert(context.Background(), rows)
	require.NoError(t, err)
	require.Equal(t, 1, baseCreates)
}

func TestFactorRepositoryUpsertEmptyRows(t *testing.T) {
	var creates int
	repo := NewFactorRepository(openCountingDB(t, &creates))

	affected, err := repo.Upsert(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, affected)
	require.Zero(t, creates)
}
