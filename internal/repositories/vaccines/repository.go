// Package vaccines is the inventory ledger: named vaccines and the number of
// doses left. Dose counts never go below zero.
package vaccines

import (
	"context"

	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

type Repository interface {
	Get(ctx context.Context, name string) (*models.Vaccine, error)
	EnsureAndAdd(ctx context.Context, name string, count int64) (int64, error)
	TryConsumeOne(ctx context.Context, name string) (bool, error)
	Restore(ctx context.Context, name string) error
	List(ctx context.Context) ([]models.Vaccine, error)
}
