package migrate

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedded embed.FS

const migrationsRoot = "migrations"

// Embedded returns the compiled-in migrations and the directory inside it that
// matches dialect.
func Embedded(dialect string) (fs.FS, string, error) {
	switch dialect {
	case config.DialectSQLite, config.DialectPostgres:
		return embedded, path.Join(migrationsRoot, dialect), nil
	}
	return nil, "", fmt.Errorf("no migrations for dialect %q", dialect)
}

// SourceDir is the on-disk location of the migrations for dialect, used by
// create/validate when working from a checkout.
func SourceDir(dialect string) string {
	return path.Join("pkg", "migrate", migrationsRoot, dialect)
}
