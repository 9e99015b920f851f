package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/config"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/repomanager"
	"github.com/Rujyng/Vaccine-Scheduler/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Rujyng/Vaccine-Scheduler/internal/services"

// ReservationService moves {availability slot, vaccine dose, appointment}
// between consistent states. Reserve and Cancel each run in a single
// transaction; a failure at any step rolls back every earlier write.
type ReservationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	txTimeout   time.Duration
	log         logging.Logger
	tracer      trace.Tracer
}

func NewReservationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *ReservationService {
	return &ReservationService{
		db:          db,
		repomanager: m,
		txTimeout:   cfg.TxTimeout,
		log:         log,
		tracer:      otel.Tracer(tracerName),
	}
}

// Reserve books the lexicographically first caregiver open on date and
// consumes one dose of vaccine for the logged in patient.
//
// A caller that loses a race for the slot or the last dose gets
// ErrNoCaregiverAvailable or ErrInsufficientDoses and may try again.
func (s *ReservationService) Reserve(ctx context.Context, sess *session.Session, date, vaccine string) (*models.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "reservation.reserve",
		trace.WithAttributes(attribute.String("appointment.date", date), attribute.String("vaccine.name", vaccine)))
	defer span.End()

	p, err := sess.RequirePatient()
	if err != nil {
		return nil, s.finish(ctx, span, "reserve", err)
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, s.finish(ctx, span, "reserve", err)
	}
	if vaccine == "" {
		return nil, s.finish(ctx, span, "reserve", common.ErrInvalidArguments)
	}

	var appt *models.Appointment
	err = runTx(ctx, s.db, s.txTimeout, nil, func(ctx context.Context, tx dbx.DBTX) error {
		slots := s.repomanager.Availabilities(tx)
		doses := s.repomanager.Vaccines(tx)

		caregiver, err := slots.FindEarliestAvailable(ctx, day)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNoCaregiverAvailable
			}
			return fmt.Errorf("error finding caregiver: %w", err)
		}

		if _, err := doses.Get(ctx, vaccine); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUnknownVaccine
			}
			return fmt.Errorf("error loading vaccine: %w", err)
		}

		claimed, err := slots.TryClaim(ctx, caregiver, day)
		if err != nil {
			return fmt.Errorf("error claiming slot: %w", err)
		}
		if !claimed {
			return common.ErrNoCaregiverAvailable
		}

		consumed, err := doses.TryConsumeOne(ctx, vaccine)
		if err != nil {
			return fmt.Errorf("error consuming dose: %w", err)
		}
		if !consumed {
			return common.ErrInsufficientDoses
		}

		appt, err = s.repomanager.Appointments(tx).Create(ctx, day, p.UserName, caregiver, vaccine)
		if err != nil {
			if dbx.IsUniqueViolation(err) {
				return common.ErrNoCaregiverAvailable
			}
			return fmt.Errorf("error creating appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, span, "reserve", err)
	}

	span.SetAttributes(attribute.Int64("appointment.id", appt.ID), attribute.String("caregiver", appt.Caregiver))
	s.logger(ctx).Info(ctx, "appointment reserved",
		"appointment_id", appt.ID, "patient", appt.Patient, "caregiver", appt.Caregiver,
		"vaccine", appt.Vaccine, "date", dbx.DateArg(appt.Date))
	return appt, s.finish(ctx, span, "reserve", nil)
}

// Cancel deletes an appointment the logged in principal is a party to,
// reopens its slot and returns its dose. Appointments that do not exist and
// appointments owned by someone else are reported identically.
func (s *ReservationService) Cancel(ctx context.Context, sess *session.Session, appointmentID string) error {
	ctx, span := s.tracer.Start(ctx, "reservation.cancel",
		trace.WithAttributes(attribute.String("appointment.id", appointmentID)))
	defer span.End()

	p, err := sess.RequireAny()
	if err != nil {
		return s.finish(ctx, span, "cancel", err)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(appointmentID), 10, 64)
	if err != nil {
		return s.finish(ctx, span, "cancel", common.ErrInvalidArguments)
	}

	var patient, caregiver string
	if p.Kind == models.KindPatient {
		patient = p.UserName
	} else {
		caregiver = p.UserName
	}

	err = runTx(ctx, s.db, s.txTimeout, nil, func(ctx context.Context, tx dbx.DBTX) error {
		appts := s.repomanager.Appointments(tx)

		appt, err := appts.FindOwnedByID(ctx, id, patient, caregiver)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotFoundOrNotOwned
			}
			return fmt.Errorf("error loading appointment: %w", err)
		}

		// A concurrent cancel may have removed the row after it was read;
		// only the call that deletes it may release the slot and the dose.
		deleted, err := appts.Delete(ctx, appt.ID)
		if err != nil {
			return fmt.Errorf("error deleting appointment: %w", err)
		}
		if !deleted {
			return common.ErrNotFoundOrNotOwned
		}
		if err := s.repomanager.Availabilities(tx).Release(ctx, appt.Caregiver, appt.Date); err != nil {
			return fmt.Errorf("error releasing slot: %w", err)
		}
		if err := s.repomanager.Vaccines(tx).Restore(ctx, appt.Vaccine); err != nil {
			return fmt.Errorf("error restoring dose: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.finish(ctx, span, "cancel", err)
	}

	s.logger(ctx).Info(ctx, "appointment canceled", "appointment_id", id, "by", p.UserName)
	return s.finish(ctx, span, "cancel", nil)
}

// AddDoses adds count doses of vaccine, creating it when unseen, and
// returns the new total.
func (s *ReservationService) AddDoses(ctx context.Context, sess *session.Session, vaccine string, count int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.add_doses",
		trace.WithAttributes(attribute.String("vaccine.name", vaccine), attribute.Int64("vaccine.count", count)))
	defer span.End()

	if _, err := sess.RequireCaregiver(); err != nil {
		return 0, s.finish(ctx, span, "add_doses", err)
	}
	if vaccine == "" {
		return 0, s.finish(ctx, span, "add_doses", common.ErrInvalidArguments)
	}
	if count < 0 {
		return 0, s.finish(ctx, span, "add_doses", common.ErrInvalidDoseCount)
	}

	var total int64
	err := runTx(ctx, s.db, s.txTimeout, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if total, err = s.repomanager.Vaccines(tx).EnsureAndAdd(ctx, vaccine, count); err != nil {
			return fmt.Errorf("error adding doses: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, s.finish(ctx, span, "add_doses", err)
	}

	s.logger(ctx).Info(ctx, "doses added", "vaccine", vaccine, "count", count, "total", total)
	return total, s.finish(ctx, span, "add_doses", nil)
}

// UploadAvailability opens the logged in caregiver's slot for date.
// Re-uploading an open or released slot is a no-op; a slot that carries an
// appointment stays booked and ErrSlotBooked is returned.
func (s *ReservationService) UploadAvailability(ctx context.Context, sess *session.Session, date string) error {
	ctx, span := s.tracer.Start(ctx, "availability.upload",
		trace.WithAttributes(attribute.String("slot.date", date)))
	defer span.End()

	p, err := sess.RequireCaregiver()
	if err != nil {
		return s.finish(ctx, span, "upload_availability", err)
	}
	day, err := parseDate(date)
	if err != nil {
		return s.finish(ctx, span, "upload_availability", err)
	}

	ctx, cancel := withTimeout(ctx, s.txTimeout)
	defer cancel()

	opened, err := s.repomanager.Availabilities(s.db).Upload(ctx, p.UserName, day)
	if err != nil {
		return s.finish(ctx, span, "upload_availability", fmt.Errorf("error uploading availability: %w", err))
	}
	if !opened {
		return s.finish(ctx, span, "upload_availability", common.ErrSlotBooked)
	}

	s.logger(ctx).Info(ctx, "availability uploaded", "caregiver", p.UserName, "date", dbx.DateArg(day))
	return s.finish(ctx, span, "upload_availability", nil)
}

// SearchSchedule lists the caregivers open on date and every vaccine with
// its remaining doses, read in one consistent snapshot.
func (s *ReservationService) SearchSchedule(ctx context.Context, sess *session.Session, date string) (*models.Schedule, error) {
	ctx, span := s.tracer.Start(ctx, "schedule.search",
		trace.WithAttributes(attribute.String("slot.date", date)))
	defer span.End()

	if _, err := sess.RequireAny(); err != nil {
		return nil, s.finish(ctx, span, "search_schedule", err)
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, s.finish(ctx, span, "search_schedule", err)
	}

	sched := &models.Schedule{Date: day}
	err = runTx(ctx, s.db, s.txTimeout, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if sched.Caregivers, err = s.repomanager.Availabilities(tx).ListAvailable(ctx, day); err != nil {
			return fmt.Errorf("error listing caregivers: %w", err)
		}
		if sched.Vaccines, err = s.repomanager.Vaccines(tx).List(ctx); err != nil {
			return fmt.Errorf("error listing vaccines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, span, "search_schedule", err)
	}

	span.SetAttributes(attribute.Int("schedule.caregivers", len(sched.Caregivers)))
	return sched, s.finish(ctx, span, "search_schedule", nil)
}

// ShowAppointments lists the logged in principal's appointments by id.
func (s *ReservationService) ShowAppointments(ctx context.Context, sess *session.Session) ([]models.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointments.show")
	defer span.End()

	p, err := sess.RequireAny()
	if err != nil {
		return nil, s.finish(ctx, span, "show_appointments", err)
	}

	ctx, cancel := withTimeout(ctx, s.txTimeout)
	defer cancel()

	repo := s.repomanager.Appointments(s.db)
	var list []models.Appointment
	if p.Kind == models.KindPatient {
		list, err = repo.ListByPatient(ctx, p.UserName)
	} else {
		list, err = repo.ListByCaregiver(ctx, p.UserName)
	}
	if err != nil {
		return nil, s.finish(ctx, span, "show_appointments", fmt.Errorf("error listing appointments: %w", err))
	}

	return list, s.finish(ctx, span, "show_appointments", nil)
}

// finish records the outcome on span and logs failures. Expected business
// outcomes are logged at debug level, storage failures as errors.
func (s *ReservationService) finish(ctx context.Context, span trace.Span, op string, err error) error {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	category := common.Classify(err)
	span.SetAttributes(attribute.String("error.category", category.String()))

	if category == common.CategoryStorage {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger(ctx).Error(ctx, op+" failed", "error", err)
		return err
	}

	s.logger(ctx).Debug(ctx, op+" rejected", "reason", err.Error(), "category", category.String())
	return err
}

func (s *ReservationService) logger(ctx context.Context) logging.Logger {
	return logging.FromContext(ctx, s.log)
}
