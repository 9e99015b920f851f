package repomanager

import (
	"context"
	"database/sql"

	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/appointments"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/availabilities"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/credentials"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/vaccines"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Vaccines(db dbx.DBTX) vaccines.Repository
	Availabilities(db dbx.DBTX) availabilities.Repository
	Appointments(db dbx.DBTX) appointments.Repository
}
