package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	for _, dialect := range []string{config.DialectSQLite, config.DialectPostgres} {
		fsys, dir, err := Embedded(dialect)
		require.NoError(t, err)
		require.NoError(t, ValidateDir(fsys, dir), dialect)
	}

	_, _, err := Embedded("mysql")
	assert.Error(t, err)
}

func TestDialectsShipTheSameVersions(t *testing.T) {
	list := func(dialect string) []string {
		fsys, dir, err := Embedded(dialect)
		require.NoError(t, err)
		entries, err := fs.ReadDir(fsys, dir)
		require.NoError(t, err)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return names
	}
	assert.Equal(t, list(config.DialectSQLite), list(config.DialectPostgres))
}

func TestPostgresMigrationsDeclareConstraints(t *testing.T) {
	fsys, dir, err := Embedded(config.DialectPostgres)
	require.NoError(t, err)

	catalog, err := fs.ReadFile(fsys, dir+"/20260301000002_create_catalog.sql")
	require.NoError(t, err)
	orders, err := fs.ReadFile(fsys, dir+"/20260301000005_create_orders.sql")
	require.NoError(t, err)

	for _, sub := range []string{
		"sku_id TEXT NOT NULL UNIQUE",
		"code TEXT NOT NULL UNIQUE",
		"price NUMERIC(12,2) NOT NULL",
		"start_at TIMESTAMPTZ NOT NULL",
		"DROP TABLE IF EXISTS skus CASCADE",
	} {
		assert.Contains(t, string(catalog), sub)
	}
	for _, sub := range []string{
		"order_id TEXT NOT NULL UNIQUE",
		"CHECK (qty > 0)",
		"REFERENCES orders (order_id) ON DELETE CASCADE",
	} {
		assert.Contains(t, string(orders), sub)
	}
}

func TestUpAppliesSQLiteSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=1", filepath.Join(t.TempDir(), "migrate.db"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, Apply(context.Background(), nil, client))
	// a second run is a no-op
	require.NoError(t, Apply(context.Background(), nil, client))

	for _, table := range []string{"stores", "skus", "barcodes", "prices", "stock_ledger", "members", "orders", "order_items", "promotions", "users"} {
		assert.True(t, client.DB().Migrator().HasTable(table), table)
	}
}

func TestAutoRunRespectsFlag(t *testing.T) {
	dsn := fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "flag.db"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	require.NoError(t, AutoRun(context.Background(), cfg, nil, client))
	assert.False(t, client.DB().Migrator().HasTable("stores"))

	cfg.FeatureFlags.AutoMigrate = true
	require.NoError(t, AutoRun(context.Background(), cfg, nil, client))
	assert.True(t, client.DB().Migrator().HasTable("stores"))
}

func TestCreateSQLMigrationWritesEveryDialect(t *testing.T) {
	root := t.TempDir()
	dirs := []string{filepath.Join(root, "sqlite"), filepath.Join(root, "postgres")}
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	paths, err := CreateSQLMigration(dirs, "Add Store Phone!", now)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, "20260501120000_add_store_phone.sql", filepath.Base(p))
		body, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(body), "-- +goose Up"))
	}
	require.NoError(t, ValidateDir(os.DirFS(root), "sqlite"))

	_, err = CreateSQLMigration(dirs, "add store phone", now)
	assert.Error(t, err, "same version must not be overwritten")

	_, err = CreateSQLMigration(dirs, "!!!", now)
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, ValidateDir(os.DirFS(root), "."))
}
