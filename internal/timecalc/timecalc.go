package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Layouts used for persisted entries.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// GenerateID creates a unique entry ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), string(suffix))
}

// Duration is a whole number of minutes. It is never negative when produced
// by ComputeDuration.
type Duration int

// Hours returns the whole hours of d.
func (d Duration) Hours() int { return int(d) / 60 }

// Minutes returns the remaining minutes of d, always in [0, 59].
func (d Duration) Minutes() int { return int(d) % 60 }

// String formats d as "H:MM".
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d", d.Hours(), d.Minutes())
}

// FormatDuration formats d as a human-readable string like "1h 40m" or "45m".
func FormatDuration(d Duration) string {
	if d.Hours() > 0 {
		return fmt.Sprintf("%dh %dm", d.Hours(), d.Minutes())
	}
	return fmt.Sprintf("%dm", d.Minutes())
}

// ParseClock parses a wall-clock time "15:04" (seconds are accepted and
// dropped) and returns the minute of the day.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// ComputeDuration returns end - start in whole minutes. Missing or
// unparseable times, and an end before the start, yield zero.
func ComputeDuration(start, end string) Duration {
	s, ok := ParseClock(start)
	if !ok {
		return 0
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0
	}
	if e < s {
		return 0
	}
	return Duration(e - s)
}

// ParseDate parses a "2006-01-02" calendar date as UTC midnight. Only the
// canonical form is accepted, so a parsed date always formats back to s.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats t as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday of the ISO week containing t, at midnight.
func WeekStart(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	return StartOfDay(t.AddDate(0, 0, -(wd - 1)))
}

// MonthBounds returns the first and last day of the given month, at UTC
// midnight.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Days returns every calendar day from from to to inclusive. It returns nil
// if to is before from.
func Days(from, to time.Time) []time.Time {
	from, to = StartOfDay(from), StartOfDay(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
