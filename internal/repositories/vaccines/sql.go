package vaccines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

// SQLRepository implements the inventory ledger over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Get returns the vaccine or common.ErrorNotFound.
func (r *SQLRepository) Get(ctx context.Context, name string) (*models.Vaccine, error) {
	query := `SELECT name, doses FROM vaccines WHERE name = $1`

	v := &models.Vaccine{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&v.Name, &v.Doses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// EnsureAndAdd creates the vaccine with count doses, or adds count to an
// existing one, and returns the resulting dose count. An add that would push
// the count past math.MaxInt64 leaves the row unchanged and fails with
// common.ErrInvalidDoseCount.
func (r *SQLRepository) EnsureAndAdd(ctx context.Context, name string, count int64) (int64, error) {
	if count < 0 {
		return 0, common.ErrInvalidDoseCount
	}

	query := `
		INSERT INTO vaccines (name, doses) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET doses = vaccines.doses + excluded.doses
		WHERE vaccines.doses <= 9223372036854775807 - excluded.doses
		RETURNING doses`

	var doses int64
	if err := r.db.QueryRowContext(ctx, query, name, count).Scan(&doses); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("add %d doses of %q: %w", count, name, common.ErrInvalidDoseCount)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return doses, nil
}

// TryConsumeOne takes one dose if at least one is left. It reports false,
// leaving the row untouched, when the vaccine is unknown or exhausted.
func (r *SQLRepository) TryConsumeOne(ctx context.Context, name string) (bool, error) {
	query := `UPDATE vaccines SET doses = doses - 1 WHERE name = $1 AND doses > 0`

	return execOne(ctx, r.db, query, name)
}

// Restore gives one dose back. A missing vaccine means an appointment
// outlived its inventory row and is reported as common.ErrInconsistentState.
func (r *SQLRepository) Restore(ctx context.Context, name string) error {
	query := `UPDATE vaccines SET doses = doses + 1 WHERE name = $1`

	ok, err := execOne(ctx, r.db, query, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("restore dose of %q: %w", name, common.ErrInconsistentState)
	}
	return nil
}

// List returns every vaccine ordered by name.
func (r *SQLRepository) List(ctx context.Context) ([]models.Vaccine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, doses FROM vaccines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Vaccine
	for rows.Next() {
		var v models.Vaccine
		if err := rows.Scan(&v.Name, &v.Doses); err != nil {
			return nil, fmt.Errorf("failed to scan vaccine row: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vaccine rows: %w", err)
	}
	return result, nil
}

// execOne runs a guarded single-row update and reports whether it applied.
func execOne(ctx context.Context, db dbx.DBTX, query string, args ...any) (bool, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}
