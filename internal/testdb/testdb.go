// Package testdb opens throwaway SQLite databases migrated with the embedded
// schema, for repository and service tests.
package testdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/migrate"
)

// Open returns a migrated client backed by a file in t.TempDir.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_foreign_keys=1", filepath.Join(t.TempDir(), "retail_test.db"))
	client, err := db.New(context.Background(), config.DBConfig{Driver: config.DialectSQLite, DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrate.Apply(context.Background(), nil, client); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return client
}
