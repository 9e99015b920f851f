package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

func (a *App) CreatePatient(ctx context.Context, args []string) error {
	return a.register(ctx, models.KindPatient, args[0], args[1])
}

func (a *App) CreateCaregiver(ctx context.Context, args []string) error {
	return a.register(ctx, models.KindCaregiver, args[0], args[1])
}

// register creates the account and, when nobody is logged in yet, makes it
// the session principal.
func (a *App) register(ctx context.Context, kind models.Kind, userName, password string) error {
	id, err := a.credentials.Register(ctx, kind, userName, password)
	if err != nil {
		return err
	}
	printlnFn("Created user " + id.UserName)

	if a.session.Current() == nil {
		if err := a.session.Login(id); err != nil {
			return err
		}
		printlnFn("Logged in as: " + id.UserName)
	}
	return nil
}

func (a *App) LoginPatient(ctx context.Context, args []string) error {
	return a.login(ctx, models.KindPatient, args[0], args[1])
}

func (a *App) LoginCaregiver(ctx context.Context, args []string) error {
	return a.login(ctx, models.KindCaregiver, args[0], args[1])
}

func (a *App) login(ctx context.Context, kind models.Kind, userName, password string) error {
	if a.session.Current() != nil {
		return common.ErrAlreadyLoggedIn
	}
	id, err := a.credentials.Authenticate(ctx, kind, userName, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(id); err != nil {
		return err
	}
	printlnFn("Logged in as: " + id.UserName)
	return nil
}

// SearchCaregiverSchedule prints one "<caregiver> <vaccine> <doses>" line per
// available caregiver and vaccine. A caregiver is printed alone when no
// vaccine is stocked.
func (a *App) SearchCaregiverSchedule(ctx context.Context, args []string) error {
	sched, err := a.reservations.SearchSchedule(ctx, a.session, args[0])
	if err != nil {
		return err
	}
	if len(sched.Caregivers) == 0 {
		return common.ErrNoCaregiverAvailable
	}

	for _, c := range sched.Caregivers {
		if len(sched.Vaccines) == 0 {
			printlnFn(c)
			continue
		}
		for _, v := range sched.Vaccines {
			printlnFn(fmt.Sprintf("%s %s %d", c, v.Name, v.Doses))
		}
	}
	return nil
}

func (a *App) Reserve(ctx context.Context, args []string) error {
	appt, err := a.reservations.Reserve(ctx, a.session, args[0], args[1])
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Appointment ID: %d, Caregiver username: %s", appt.ID, appt.Caregiver))
	return nil
}

func (a *App) UploadAvailability(ctx context.Context, args []string) error {
	if err := a.reservations.UploadAvailability(ctx, a.session, args[0]); err != nil {
		return err
	}
	printlnFn("Availability uploaded!")
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if err := a.reservations.Cancel(ctx, a.session, args[0]); err != nil {
		return err
	}
	printlnFn("Appointment canceled successfully!")
	return nil
}

func (a *App) AddDoses(ctx context.Context, args []string) error {
	count, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return common.ErrInvalidArguments
	}
	if _, err := a.reservations.AddDoses(ctx, a.session, args[0], count); err != nil {
		return err
	}
	printlnFn("Doses updated!")
	return nil
}

// ShowAppointments prints "<id> <vaccine> <date> <counterpart>" per
// appointment, where counterpart is the caregiver for a patient and the
// patient for a caregiver.
func (a *App) ShowAppointments(ctx context.Context, _ []string) error {
	list, err := a.reservations.ShowAppointments(ctx, a.session)
	if err != nil {
		return err
	}

	kind := a.session.Current().Kind
	for _, appt := range list {
		counterpart := appt.Caregiver
		if kind == models.KindCaregiver {
			counterpart = appt.Patient
		}
		printlnFn(fmt.Sprintf("%d %s %s %s", appt.ID, appt.Vaccine, dbx.DateArg(appt.Date), counterpart))
	}
	return nil
}

func (a *App) Logout(_ context.Context, _ []string) error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	printlnFn("Successfully logged out!")
	return nil
}
