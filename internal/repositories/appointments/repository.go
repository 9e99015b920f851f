// Package appointments is the appointment ledger.
package appointments

import (
	"context"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

type Repository interface {
	Create(ctx context.Context, date time.Time, patient, caregiver, vaccine string) (*models.Appointment, error)
	FindOwnedByID(ctx context.Context, id int64, patient, caregiver string) (*models.Appointment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByPatient(ctx context.Context, userName string) ([]models.Appointment, error)
	ListByCaregiver(ctx context.Context, userName string) ([]models.Appointment, error)
}
