package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rujyng/Vaccine-Scheduler/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the store and verifies the connection.
//
// SQLite handles are limited to a single connection, so concurrent
// transactions queue in the pool instead of failing with SQLITE_BUSY.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		if path := sqliteFilePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, fmt.Errorf("db open error: %w", err)
			}
		}
		dsn = withSQLitePragmas(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

// sqliteFilePath returns the file behind a SQLite DSN, or "" for in-memory
// databases.
func sqliteFilePath(dsn string) string {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}
	return path
}
