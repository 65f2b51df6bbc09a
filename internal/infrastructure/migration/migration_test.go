package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

func TestNewManager_StrategySelection(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		driver   string
		want     string
		wantErr  bool
	}{
		{"auto", StrategyAuto, "mysql", StrategyAuto, false},
		{"empty defaults to auto", "", "mysql", StrategyAuto, false},
		{"golang-migrate on mysql", StrategyGolangMigrate, "mysql", StrategyGolangMigrate, false},
		{"goose on mysql", StrategyGoose, "mysql", StrategyGoose, false},
		{"sqlite falls back to auto", StrategyGoose, "sqlite", StrategyAuto, false},
		{"unknown", "flyway", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.strategy, tt.driver, logger.NewNopLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Strategy().Name())
		})
	}
}

func TestManager_AutoMigrateSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	m, err := NewManager(StrategyAuto, "sqlite", logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, m.Migrate(db))

	for _, table := range []string{constants.TableAnnouncements, constants.TableTemplates, constants.TableUserSegments} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	_, err = m.Reversible()
	assert.Error(t, err)
}

// TestEmbeddedScripts_Paired verifies every golang-migrate up script has a
// down script and goose carries the same versions.
func TestEmbeddedScripts_Paired(t *testing.T) {
	ups, err := fs.Glob(scriptsFS, golangMigrateDir+"/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(scriptsFS, down)
		assert.NoError(t, err, down)
	}

	gooseScripts, err := fs.Glob(scriptsFS, gooseDir+"/*.sql")
	require.NoError(t, err)
	assert.Len(t, gooseScripts, len(ups))

	for _, path := range gooseScripts {
		content, err := fs.ReadFile(scriptsFS, path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- +goose Up")
		assert.Contains(t, string(content), "-- +goose Down")
	}
}
