// Package credentials persists salted password verifiers for patients and
// caregivers. Each Kind is stored in its own table.
package credentials

import (
	"context"

	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

type Repository interface {
	Create(ctx context.Context, identity *models.Identity) error
	Exists(ctx context.Context, kind models.Kind, userName string) (bool, error)
	GetByUserName(ctx context.Context, kind models.Kind, userName string) (*models.Identity, error)
}
