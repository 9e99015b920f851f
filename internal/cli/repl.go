package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/google/uuid"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub. Each method receives the arguments after the
// command name, already checked for arity.
type execIface interface {
	CreatePatient(ctx context.Context, args []string) error
	CreateCaregiver(ctx context.Context, args []string) error
	LoginPatient(ctx context.Context, args []string) error
	LoginCaregiver(ctx context.Context, args []string) error
	SearchCaregiverSchedule(ctx context.Context, args []string) error
	Reserve(ctx context.Context, args []string) error
	UploadAvailability(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	AddDoses(ctx context.Context, args []string) error
	ShowAppointments(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

type command struct {
	name  string
	usage string
	arity int
	run   func(a execIface, ctx context.Context, args []string) error

	// fallback is printed for failures no message below matches.
	fallback string
	messages map[error]string
}

var commands = []command{
	{
		name: "create_patient", usage: "create_patient <username> <password>", arity: 2,
		run:      execIface.CreatePatient,
		fallback: "Failed to create user.",
	},
	{
		name: "create_caregiver", usage: "create_caregiver <username> <password>", arity: 2,
		run:      execIface.CreateCaregiver,
		fallback: "Failed to create user.",
	},
	{
		name: "login_patient", usage: "login_patient <username> <password>", arity: 2,
		run:      execIface.LoginPatient,
		fallback: "Login failed.",
	},
	{
		name: "login_caregiver", usage: "login_caregiver <username> <password>", arity: 2,
		run:      execIface.LoginCaregiver,
		fallback: "Login failed.",
	},
	{
		name: "search_caregiver_schedule", usage: "search_caregiver_schedule <date>", arity: 1,
		run:      execIface.SearchCaregiverSchedule,
		fallback: "Please try again!",
	},
	{
		name: "reserve", usage: "reserve <date> <vaccine>", arity: 2,
		run:      execIface.Reserve,
		fallback: "Please try again!",
		messages: map[error]string{common.ErrWrongRole: "Please login as a patient!"},
	},
	{
		name: "upload_availability", usage: "upload_availability <date>", arity: 1,
		run:      execIface.UploadAvailability,
		fallback: "Error occurred when uploading availability",
		messages: map[error]string{
			common.ErrNotLoggedIn: "Please login as a caregiver first!",
			common.ErrWrongRole:   "Please login as a caregiver first!",
		},
	},
	{
		name: "cancel", usage: "cancel <appointment_id>", arity: 1,
		run:      execIface.Cancel,
		fallback: "Please try again!",
	},
	{
		name: "add_doses", usage: "add_doses <vaccine> <number>", arity: 2,
		run:      execIface.AddDoses,
		fallback: "Error occurred when adding doses",
		messages: map[error]string{
			common.ErrNotLoggedIn: "Please login as a caregiver first!",
			common.ErrWrongRole:   "Please login as a caregiver first!",
		},
	},
	{
		name: "show_appointments", usage: "show_appointments", arity: 0,
		run:      execIface.ShowAppointments,
		fallback: "Please try again!",
	},
	{
		name: "logout", usage: "logout", arity: 0,
		run:      execIface.Logout,
		fallback: "Please try again!",
	},
}

// commonMessages apply to every command unless it overrides them.
var commonMessages = []struct {
	err error
	msg string
}{
	{common.ErrNotLoggedIn, "Please login first!"},
	{common.ErrAlreadyLoggedIn, "User already logged in."},
	{common.ErrWrongRole, "Wrong account type for this operation!"},
	{common.ErrInvalidDate, "Please enter a valid date!"},
	{common.ErrInvalidDoseCount, "Please enter a non-negative number of doses!"},
	{common.ErrInvalidArguments, "Please try again!"},
	{common.ErrUsernameTaken, "Username taken, try again!"},
	{common.ErrNoCaregiverAvailable, "No Caregiver is available!"},
	{common.ErrInsufficientDoses, "Not enough available doses!"},
	{common.ErrSlotBooked, "Availability already booked for that date!"},
	{common.ErrUnknownVaccine, "No matching vaccine based on your input!"},
	{common.ErrNotFoundOrNotOwned, "No matching appointment based on your input"},
}

func (c *command) message(err error) string {
	for target, msg := range c.messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	for _, m := range commonMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return c.fallback
}

func lookup(name string) (*command, bool) {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i], true
		}
	}
	return nil, false
}

func printHelp() {
	printlnFn("*** Please enter one of the following commands ***")
	for _, c := range commands {
		printlnFn("> " + c.usage)
	}
	printlnFn("> quit")
}

// runREPL reads one command per line from scanner and dispatches it to a.
//
// Tokens are split on whitespace and the argument count must match the
// command exactly. Failures are reported with a fixed message per error
// kind and never stop the loop; only "quit" (or "exit") and EOF do. Every
// dispatched command gets its own correlation id in the log.
func runREPL(ctx context.Context, a execIface, log logging.Logger, prompt string, scanner *bufio.Scanner) {
	for {
		if prompt != "" {
			printFn(prompt)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp()
			continue
		case "quit", "exit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(name)
		if !ok {
			printlnFn("Invalid operation name!")
			continue
		}
		if len(args) != cmd.arity {
			printlnFn("Please try again!")
			continue
		}

		l := log.With("command_id", uuid.NewString(), "command", name)
		cmdCtx := logging.WithContext(ctx, l)

		if err := cmd.run(a, cmdCtx, args); err != nil {
			category := common.Classify(err)
			if category == common.CategoryStorage {
				l.Error(cmdCtx, "command failed", "error", err)
			} else {
				l.Debug(cmdCtx, "command rejected", "category", category.String(), "reason", err.Error())
			}
			printlnFn(cmd.message(err))
		}
	}
}
