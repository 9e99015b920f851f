// Package availabilities is the availability calendar: one row per
// caregiver and date telling whether that day is still open.
package availabilities

import (
	"context"
	"time"
)

type Repository interface {
	Upload(ctx context.Context, userName string, date time.Time) (bool, error)
	FindEarliestAvailable(ctx context.Context, date time.Time) (string, error)
	TryClaim(ctx context.Context, userName string, date time.Time) (bool, error)
	Release(ctx context.Context, userName string, date time.Time) error
	ListAvailable(ctx context.Context, date time.Time) ([]string, error)
}
