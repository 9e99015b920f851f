package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

var tables = map[models.Kind]string{
	models.KindPatient:   "patients",
	models.KindCaregiver: "caregivers",
}

// SQLRepository stores identities through a dbx.DBTX. The queries are
// portable between PostgreSQL and SQLite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func tableFor(kind models.Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("unknown identity kind %q: %w", kind, common.ErrInvalidArguments)
	}
	return t, nil
}

func (r *SQLRepository) Create(ctx context.Context, identity *models.Identity) error {
	table, err := tableFor(identity.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (username, salt, hash) VALUES ($1, $2, $3)`, table)

	_, err = r.db.ExecContext(ctx, query, identity.UserName, identity.Salt, identity.Verifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Exists(ctx context.Context, kind models.Kind, userName string) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE username = $1)`, table)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *SQLRepository) GetByUserName(ctx context.Context, kind models.Kind, userName string) (*models.Identity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT username, salt, hash FROM %s WHERE username = $1`, table)

	identity := &models.Identity{Kind: kind}
	err = r.db.QueryRowContext(ctx, query, userName).Scan(&identity.UserName, &identity.Salt, &identity.Verifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}
