package model

import (
	"errors"
	"fmt"

	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// ErrInvalidEntry is wrapped by Validate errors.
var ErrInvalidEntry = errors.New("invalid entry")

// Validate checks the fields a user enters: the date must be a real
// "2006-01-02" day and any given time must be "15:04". An end before the
// start is accepted; such an entry counts as zero time.
func (e TimeEntry) Validate() error {
	if _, ok := timecalc.ParseDate(e.Date); !ok {
		return fmt.Errorf("%w: date %q (want YYYY-MM-DD)", ErrInvalidEntry, e.Date)
	}
	for _, t := range []struct{ name, v string }{{"start", e.StartTime}, {"end", e.EndTime}} {
		if t.v == "" {
			continue
		}
		if _, ok := timecalc.ParseClock(t.v); !ok {
			return fmt.Errorf("%w: %s time %q (want HH:MM)", ErrInvalidEntry, t.name, t.v)
		}
	}
	return nil
}
