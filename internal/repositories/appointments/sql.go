package appointments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

const selectColumns = `SELECT id, appt_date, patient, caregiver, vaccine FROM appointments`

// SQLRepository implements the appointment ledger over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a new appointment and returns it with its store-assigned id.
func (r *SQLRepository) Create(ctx context.Context, date time.Time, patient, caregiver, vaccine string) (*models.Appointment, error) {
	query := `
		INSERT INTO appointments (appt_date, patient, caregiver, vaccine)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, dbx.DateArg(date), patient, caregiver, vaccine).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &models.Appointment{
		ID:        id,
		Date:      date,
		Patient:   patient,
		Caregiver: caregiver,
		Vaccine:   vaccine,
	}, nil
}

// FindOwnedByID returns the appointment only when the given patient or
// caregiver is a party to it. Absent and foreign appointments are both
// reported as common.ErrorNotFound.
func (r *SQLRepository) FindOwnedByID(ctx context.Context, id int64, patient, caregiver string) (*models.Appointment, error) {
	query := selectColumns + ` WHERE id = $1 AND (patient = $2 OR caregiver = $3)`

	a, err := scanOne(r.db.QueryRowContext(ctx, query, id, patient, caregiver))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Delete removes the appointment and reports whether this call removed it.
// Deleting a missing id is not an error; it returns false.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM appointments WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *SQLRepository) ListByPatient(ctx context.Context, userName string) ([]models.Appointment, error) {
	return r.list(ctx, selectColumns+` WHERE patient = $1 ORDER BY id`, userName)
}

func (r *SQLRepository) ListByCaregiver(ctx context.Context, userName string) ([]models.Appointment, error) {
	return r.list(ctx, selectColumns+` WHERE caregiver = $1 ORDER BY id`, userName)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Appointment
	for rows.Next() {
		a, err := scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointment rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(s scanner) (*models.Appointment, error) {
	var (
		a    models.Appointment
		date dbx.Date
	)
	if err := s.Scan(&a.ID, &date, &a.Patient, &a.Caregiver, &a.Vaccine); err != nil {
		return nil, err
	}
	a.Date = date.Time
	return &a, nil
}
