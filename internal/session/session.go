// Package session tracks the principal logged in to one command-line
// instance. A Session is owned by its REPL and is not safe for concurrent
// use.
package session

import (
	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

// Principal is the identity currently holding the session.
type Principal struct {
	Kind     models.Kind
	UserName string
}

type Session struct {
	current *Principal
}

func New() *Session {
	return &Session{}
}

// Login binds id to the session. Only kind and username are kept.
func (s *Session) Login(id *models.Identity) error {
	if s.current != nil {
		return common.ErrAlreadyLoggedIn
	}
	if id == nil || !id.Kind.Valid() || id.UserName == "" {
		return common.ErrInvalidArguments
	}
	s.current = &Principal{Kind: id.Kind, UserName: id.UserName}
	return nil
}

func (s *Session) Logout() error {
	if s.current == nil {
		return common.ErrNotLoggedIn
	}
	s.current = nil
	return nil
}

// Current returns the logged in principal, or nil.
func (s *Session) Current() *Principal {
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

func (s *Session) RequireAny() (*Principal, error) {
	if s.current == nil {
		return nil, common.ErrNotLoggedIn
	}
	return s.Current(), nil
}

func (s *Session) RequirePatient() (*Principal, error) {
	return s.require(models.KindPatient)
}

func (s *Session) RequireCaregiver() (*Principal, error) {
	return s.require(models.KindCaregiver)
}

func (s *Session) require(kind models.Kind) (*Principal, error) {
	p, err := s.RequireAny()
	if err != nil {
		return nil, err
	}
	if p.Kind != kind {
		return nil, common.ErrWrongRole
	}
	return p, nil
}
