package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
)

// goose keeps dialect and base FS in package globals.
var gooseMu sync.Mutex

func gooseDialect(dialect string) (string, error) {
	switch dialect {
	case config.DialectSQLite:
		return "sqlite3", nil
	case config.DialectPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported dialect %q", dialect)
}

func prepare(dialect string, fsys fs.FS) error {
	name, err := gooseDialect(dialect)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetBaseFS(fsys)
	return nil
}

// Run executes a standard goose command that requires a DB connection. A nil
// fsys reads dir from the operating system.
func Run(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepare(dialect, fsys); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending embedded migration for dialect.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	fsys, dir, err := Embedded(dialect)
	if err != nil {
		return err
	}
	return Run(ctx, db, dialect, fsys, dir, "up")
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepare(dialect, fsys); err != nil {
		return err
	}
	defer goose.SetBaseFS(nil)

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
