// Package cli is the scheduler's line-oriented command interface. One App
// owns one Session; commands run against the credential and reservation
// services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/Rujyng/Vaccine-Scheduler/internal/config"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/repomanager"
	"github.com/Rujyng/Vaccine-Scheduler/internal/services"
	"github.com/Rujyng/Vaccine-Scheduler/internal/session"
	"golang.org/x/term"
)

const prompt = "> "

type App struct {
	db           *sql.DB
	credentials  *services.CredentialService
	reservations *services.ReservationService
	session      *session.Session
	log          logging.Logger
}

// NewApp opens the configured store, applies its schema and wires the
// services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	rm, err := repomanager.NewSQLRepositoryManager(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	log.Info(ctx, "store ready", "driver", cfg.DatabaseDriver)
	return newApp(db, rm, cfg, log), nil
}

func newApp(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *App {
	return &App{
		db:           db,
		credentials:  services.NewCredentialService(db, rm, log),
		reservations: services.NewReservationService(db, rm, cfg, log),
		session:      session.New(),
		log:          log,
	}
}

// Run greets the user and serves commands from in until quit or EOF. The
// prompt is shown only when in is a terminal.
func (a *App) Run(ctx context.Context, in io.Reader) {
	p := ""
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p = prompt
	}

	printlnFn()
	printlnFn("Welcome to the COVID-19 Vaccine Reservation Scheduling Application!")
	printHelp()
	printlnFn()

	runREPL(ctx, a, a.log, p, bufio.NewScanner(in))
}

func (a *App) Close() error {
	return a.db.Close()
}
