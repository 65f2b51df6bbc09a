package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type seedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(&seedRow{}))
	return database
}

func countRows(t *testing.T, database *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.Model(&seedRow{}).Count(&n).Error)
	return n
}

func TestRunInTransaction_Commits(t *testing.T) {
	database := openTestDB(t)
	tm := NewTransactionManager(database)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := GetTxFromContext(ctx, database).Create(&seedRow{Name: "welcome"}).Error; err != nil {
			return err
		}
		return GetTxFromContext(ctx, database).Create(&seedRow{Name: "maintenance"}).Error
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), countRows(t, database))
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	tm := NewTransactionManager(database)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, database).Create(&seedRow{Name: "welcome"}).Error)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countRows(t, database))
}

func TestRunInTransaction_NestedJoinsOuter(t *testing.T) {
	database := openTestDB(t)
	tm := NewTransactionManager(database)
	boom := errors.New("outer failed")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		inner := tm.RunInTransaction(ctx, func(ctx context.Context) error {
			return GetTxFromContext(ctx, database).Create(&seedRow{Name: "nested"}).Error
		})
		require.NoError(t, inner)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countRows(t, database))
}

func TestGetTxFromContext_FallsBackToDefault(t *testing.T) {
	database := openTestDB(t)

	got := GetTxFromContext(context.Background(), database)
	require.NoError(t, got.Create(&seedRow{Name: "plain"}).Error)

	assert.Equal(t, int64(1), countRows(t, database))
}
