package availabilities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
)

// SQLRepository implements the availability calendar over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Upload opens the caregiver's slot for date, creating it when absent.
// A slot that currently carries an appointment is left closed and false
// is returned.
func (r *SQLRepository) Upload(ctx context.Context, userName string, date time.Time) (bool, error) {
	query := `
		INSERT INTO availabilities (username, slot_date, available) VALUES ($1, $2, TRUE)
		ON CONFLICT (username, slot_date) DO UPDATE SET available = TRUE
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.caregiver = $1 AND a.appt_date = $2
		)`

	res, err := r.db.ExecContext(ctx, query, userName, dbx.DateArg(date))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// FindEarliestAvailable returns the lexicographically first caregiver open
// on date, or common.ErrorNotFound.
func (r *SQLRepository) FindEarliestAvailable(ctx context.Context, date time.Time) (string, error) {
	query := `
		SELECT username FROM availabilities
		WHERE slot_date = $1 AND available = TRUE
		ORDER BY username
		LIMIT 1`

	var userName string
	err := r.db.QueryRowContext(ctx, query, dbx.DateArg(date)).Scan(&userName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return userName, nil
}

// TryClaim closes the slot if it is open and reports whether it did.
func (r *SQLRepository) TryClaim(ctx context.Context, userName string, date time.Time) (bool, error) {
	query := `
		UPDATE availabilities SET available = FALSE
		WHERE username = $1 AND slot_date = $2 AND available = TRUE`

	res, err := r.db.ExecContext(ctx, query, userName, dbx.DateArg(date))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

// Release reopens the slot. The slot must exist.
func (r *SQLRepository) Release(ctx context.Context, userName string, date time.Time) error {
	query := `UPDATE availabilities SET available = TRUE WHERE username = $1 AND slot_date = $2`

	res, err := r.db.ExecContext(ctx, query, userName, dbx.DateArg(date))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("release slot %s/%s: %w", userName, dbx.DateArg(date), common.ErrInconsistentState)
	}
	return nil
}

// ListAvailable returns every caregiver open on date, ordered by username.
func (r *SQLRepository) ListAvailable(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT username FROM availabilities
		WHERE slot_date = $1 AND available = TRUE
		ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query, dbx.DateArg(date))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var userName string
		if err := rows.Scan(&userName); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		result = append(result, userName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability rows: %w", err)
	}
	return result, nil
}
