package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/models"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}
	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, RunMigrations(db, zap.NewNop()))
	for _, table := range []string{"users", "auth_tokens", "tags", "ingredients", "recipes", "recipe_tags", "recipe_ingredients", "articles"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	user := models.User{Email: "test@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	assert.NoError(t, HealthCheck(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteForeignKeysAreOn(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make(map[string]bool, len(ups))
	for _, e := range ups {
		names[e.Name()] = true
	}
	for name := range names {
		if filepath.Ext(name) != ".sql" {
			continue
		}
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, names[base+".down.sql"], "missing down migration for %s", name)
		}
	}
}
