package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/config"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/appointments"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/availabilities"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/credentials"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/vaccines"
	"github.com/Rujyng/Vaccine-Scheduler/internal/session"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{TxTimeout: 5 * time.Second}
}

func loggedIn(t *testing.T, kind models.Kind, name string) *session.Session {
	t.Helper()
	s := session.New()
	require.NoError(t, s.Login(&models.Identity{Kind: kind, UserName: name}))
	return s
}

// --- credentials ---

type fakeCredentialsRepo struct {
	existsOut bool
	existsErr error
	createErr error
	getOut    *models.Identity
	getErr    error

	created []*models.Identity
}

func (f *fakeCredentialsRepo) Create(_ context.Context, id *models.Identity) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, id)
	return nil
}

func (f *fakeCredentialsRepo) Exists(context.Context, models.Kind, string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeCredentialsRepo) GetByUserName(context.Context, models.Kind, string) (*models.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

// --- vaccines ---

type fakeVaccinesRepo struct {
	getErr     error
	consumeOut bool
	consumeErr error
	restoreErr error
	addOut     int64
	addErr     error
	listOut    []models.Vaccine

	consumed []string
	restored []string
}

func (f *fakeVaccinesRepo) Get(_ context.Context, name string) (*models.Vaccine, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Vaccine{Name: name, Doses: 1}, nil
}

func (f *fakeVaccinesRepo) EnsureAndAdd(context.Context, string, int64) (int64, error) {
	return f.addOut, f.addErr
}

func (f *fakeVaccinesRepo) TryConsumeOne(_ context.Context, name string) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	if f.consumeOut {
		f.consumed = append(f.consumed, name)
	}
	return f.consumeOut, nil
}

func (f *fakeVaccinesRepo) Restore(_ context.Context, name string) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = append(f.restored, name)
	return nil
}

func (f *fakeVaccinesRepo) List(context.Context) ([]models.Vaccine, error) {
	return f.listOut, nil
}

// --- availabilities ---

type fakeAvailabilitiesRepo struct {
	earliestOut string
	earliestErr error
	claimOut    bool
	uploadOut   bool
	uploadErr   error
	releaseErr  error
	listOut     []string

	claimed  []string
	released []string
}

func (f *fakeAvailabilitiesRepo) Upload(context.Context, string, time.Time) (bool, error) {
	return f.uploadOut, f.uploadErr
}

func (f *fakeAvailabilitiesRepo) FindEarliestAvailable(context.Context, time.Time) (string, error) {
	if f.earliestErr != nil {
		return "", f.earliestErr
	}
	if f.earliestOut == "" {
		return "", common.ErrorNotFound
	}
	return f.earliestOut, nil
}

func (f *fakeAvailabilitiesRepo) TryClaim(_ context.Context, name string, _ time.Time) (bool, error) {
	if f.claimOut {
		f.claimed = append(f.claimed, name)
	}
	return f.claimOut, nil
}

func (f *fakeAvailabilitiesRepo) Release(_ context.Context, name string, _ time.Time) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, name)
	return nil
}

func (f *fakeAvailabilitiesRepo) ListAvailable(context.Context, time.Time) ([]string, error) {
	return f.listOut, nil
}

// --- appointments ---

type fakeAppointmentsRepo struct {
	createErr error
	findOut   *models.Appointment
	listOut   []models.Appointment

	// deleteMiss makes Delete report that the row was already gone.
	deleteMiss bool

	lastFind [2]string
	listedBy string
	deleted  []int64
}

func (f *fakeAppointmentsRepo) Create(_ context.Context, date time.Time, patient, caregiver, vaccine string) (*models.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Appointment{ID: 1, Date: date, Patient: patient, Caregiver: caregiver, Vaccine: vaccine}, nil
}

func (f *fakeAppointmentsRepo) FindOwnedByID(_ context.Context, id int64, patient, caregiver string) (*models.Appointment, error) {
	f.lastFind = [2]string{patient, caregiver}
	if f.findOut == nil || f.findOut.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.findOut, nil
}

func (f *fakeAppointmentsRepo) Delete(_ context.Context, id int64) (bool, error) {
	if f.deleteMiss {
		return false, nil
	}
	f.deleted = append(f.deleted, id)
	return true, nil
}

func (f *fakeAppointmentsRepo) ListByPatient(_ context.Context, name string) ([]models.Appointment, error) {
	f.listedBy = "patient:" + name
	return f.listOut, nil
}

func (f *fakeAppointmentsRepo) ListByCaregiver(_ context.Context, name string) ([]models.Appointment, error) {
	f.listedBy = "caregiver:" + name
	return f.listOut, nil
}

// --- manager ---

type fakeRepoManager struct {
	c  *fakeCredentialsRepo
	v  *fakeVaccinesRepo
	av *fakeAvailabilitiesRepo
	ap *fakeAppointmentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		c:  &fakeCredentialsRepo{},
		v:  &fakeVaccinesRepo{},
		av: &fakeAvailabilitiesRepo{},
		ap: &fakeAppointmentsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Credentials(dbx.DBTX) credentials.Repository       { return m.c }
func (m *fakeRepoManager) Vaccines(dbx.DBTX) vaccines.Repository             { return m.v }
func (m *fakeRepoManager) Availabilities(dbx.DBTX) availabilities.Repository { return m.av }
func (m *fakeRepoManager) Appointments(dbx.DBTX) appointments.Repository     { return m.ap }

func discardLogger() logging.Logger { return logging.Discard() }
