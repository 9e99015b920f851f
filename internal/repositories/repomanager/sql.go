// Package repomanager vends repositories bound to a database handle or
// transaction and applies the embedded schema for the configured driver.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/migrations"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/appointments"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/availabilities"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/credentials"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/vaccines"
	"github.com/pressly/goose/v3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type dialect struct {
	goose string
	dir   string
}

var dialects = map[string]dialect{
	DriverPostgres: {goose: "pgx", dir: "postgres"},
	DriverSQLite:   {goose: "sqlite3", dir: "sqlite"},
}

// SQLRepositoryManager vends the SQL repositories. The queries are shared
// between dialects; only the schema differs.
type SQLRepositoryManager struct {
	dialect dialect
}

func (m *SQLRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Vaccines(db dbx.DBTX) vaccines.Repository {
	return vaccines.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Availabilities(db dbx.DBTX) availabilities.Repository {
	return availabilities.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Appointments(db dbx.DBTX) appointments.Repository {
	return appointments.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.goose); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, m.dialect.dir); err != nil {
		return err
	}
	return nil
}

// NewSQLRepositoryManager returns a manager for the given driver name.
func NewSQLRepositoryManager(driver string) (RepositoryManager, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{dialect: d}, nil
}
