package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Rujyng/Vaccine-Scheduler/internal/common"
	"github.com/Rujyng/Vaccine-Scheduler/internal/dbx"
	"github.com/Rujyng/Vaccine-Scheduler/internal/models"
)

// parseDate accepts a calendar date in YYYY-MM-DD form.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, common.ErrInvalidDate
	}
	return t, nil
}

// withTimeout bounds ctx by the configured transaction timeout, if any.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func runTx(ctx context.Context, db *sql.DB, timeout time.Duration, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return dbx.WithTx(ctx, db, opts, fn)
}
