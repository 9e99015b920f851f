package dbx

import (
	"fmt"
	"time"
)

const dateLayout = time.DateOnly

// Date scans a calendar date column into a UTC-midnight time.Time.
// PostgreSQL (pgx) hands back time.Time for DATE columns, SQLite may hand
// back either time.Time or the stored text, so both are accepted.
type Date struct {
	time.Time
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into dbx.Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("malformed date %q", s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fmt.Errorf("malformed date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// DateArg renders t as the ISO date string bound into queries.
func DateArg(t time.Time) string {
	return t.Format(dateLayout)
}
