// Package services holds the scheduler's business logic: the credential
// store and the reservation engine. Every operation runs against
// repositories vended by a repomanager.RepositoryManager.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/cryptox"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/logging"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
	"github.com/Rujyng/Vaccine-Scheduler/internal/repositories/repomanager"
)

// CredentialService registers patients and caregivers and checks their
// passwords. Only salted argon2id verifiers are stored.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CredentialService {
	return &CredentialService{db: db, repomanager: m, log: log}
}

// Register creates an identity of the given kind. ErrUsernameTaken is
// returned when the username already exists for that kind, including when
// a concurrent registration wins the race.
func (s *CredentialService) Register(ctx context.Context, kind models.Kind, userName, password string) (*models.Identity, error) {
	if err := validateCredentials(kind, userName, password); err != nil {
		return nil, err
	}

	pw := []byte(password)
	salt := cryptox.NewSalt()
	id := &models.Identity{
		Kind:     kind,
		UserName: userName,
		Salt:     salt,
		Verifier: cryptox.DeriveVerifier(pw, salt),
	}
	common.WipeByteArray(pw)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		exists, err := repo.Exists(ctx, kind, userName)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if exists {
			return common.ErrUsernameTaken
		}

		if err := repo.Create(ctx, id); err != nil {
			if dbx.IsUniqueViolation(err) {
				return common.ErrUsernameTaken
			}
			return fmt.Errorf("error creating %s: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info(ctx, "identity registered", "kind", string(kind), "username", userName)
	return id, nil
}

// Authenticate returns the identity when password matches. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, kind models.Kind, userName, password string) (*models.Identity, error) {
	if err := validateCredentials(kind, userName, password); err != nil {
		return nil, err
	}

	id, err := s.repomanager.Credentials(s.db).GetByUserName(ctx, kind, userName)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading %s: %w", kind, err)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	if id == nil {
		// Spend the same derivation time as a real check.
		_ = cryptox.DeriveVerifier(pw, cryptox.NewSalt())
		s.logger(ctx).Debug(ctx, "login for unknown identity", "kind", string(kind))
		return nil, common.ErrInvalidCredentials
	}

	if !cryptox.VerifierMatches(id.Verifier, cryptox.DeriveVerifier(pw, id.Salt)) {
		s.logger(ctx).Debug(ctx, "password mismatch", "kind", string(kind), "username", userName)
		return nil, common.ErrInvalidCredentials
	}

	return id, nil
}

func validateCredentials(kind models.Kind, userName, password string) error {
	if !kind.Valid() || userName == "" || password == "" {
		return common.ErrInvalidArguments
	}
	return nil
}

func (s *CredentialService) logger(ctx context.Context) logging.Logger {
	return logging.FromContext(ctx, s.log)
}
