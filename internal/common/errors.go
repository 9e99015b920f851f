// Package common defines the sentinel errors shared by the repositories, the
// reservation services and the command line. Callers match them with
// errors.Is and use Classify to decide how a failure is reported.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrInconsistentState = errors.New("inconsistent state")

	// Validation errors.
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDoseCount = errors.New("invalid dose count")

	// Authorization errors.
	ErrWrongRole          = errors.New("wrong role")
	ErrAlreadyLoggedIn    = errors.New("already logged in")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Conflict errors.
	ErrUsernameTaken        = errors.New("username taken")
	ErrNoCaregiverAvailable = errors.New("no caregiver available")
	ErrInsufficientDoses    = errors.New("insufficient doses")
	ErrSlotBooked           = errors.New("slot already booked")

	// Not-found errors visible to users.
	ErrUnknownVaccine     = errors.New("unknown vaccine")
	ErrNotFoundOrNotOwned = errors.New("appointment not found or not owned")
)

// Category groups errors by how the caller should react to them.
type Category int

const (
	CategoryNone Category = iota
	CategoryValidation
	CategoryAuthorization
	CategoryConflict
	CategoryNotFound
	CategoryStorage
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryValidation:
		return "validation"
	case CategoryAuthorization:
		return "authorization"
	case CategoryConflict:
		return "conflict"
	case CategoryNotFound:
		return "not_found"
	default:
		return "storage"
	}
}

var categories = []struct {
	category Category
	errs     []error
}{
	{CategoryValidation, []error{ErrInvalidArguments, ErrInvalidDate, ErrInvalidDoseCount}},
	{CategoryAuthorization, []error{ErrWrongRole, ErrAlreadyLoggedIn, ErrNotLoggedIn, ErrInvalidCredentials}},
	{CategoryConflict, []error{ErrUsernameTaken, ErrNoCaregiverAvailable, ErrInsufficientDoses, ErrSlotBooked}},
	{CategoryNotFound, []error{ErrUnknownVaccine, ErrNotFoundOrNotOwned}},
}

// Classify returns the category of err. Anything that is not one of the
// known sentinels (driver failures, ErrInconsistentState, a bare
// ErrorNotFound leaking out of a repository) is a storage failure.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	for _, c := range categories {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.category
			}
		}
	}
	return CategoryStorage
}
