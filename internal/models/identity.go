// Package models defines the records persisted by the scheduler.
package models

// Kind tells which table an identity lives in.
type Kind string

const (
	KindPatient   Kind = "patient"
	KindCaregiver Kind = "caregiver"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindPatient || k == KindCaregiver
}

// Identity is an account of one Kind. Username is unique within its kind
// and compared case-sensitively.
type Identity struct {
	Kind     Kind
	UserName string
	Salt     []byte
	Verifier []byte
}
