// Package period turns report selector inputs into the ordered list of
// calendar days a report covers.
package period

import (
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// EmptyReason explains why a window has no days.
type EmptyReason string

const (
	ReasonNone            EmptyReason = ""
	ReasonUnknownMode     EmptyReason = "unknown_mode"
	ReasonIncompleteRange EmptyReason = "incomplete_range"
	ReasonInvalidDate     EmptyReason = "invalid_date"
	ReasonReversedRange   EmptyReason = "reversed_range"
	ReasonInvalidMonth    EmptyReason = "invalid_month"
	ReasonInvalidWeek     EmptyReason = "invalid_week"
	ReasonWeekNotInMonth  EmptyReason = "week_not_in_month"
	ReasonRangeTooLong    EmptyReason = "range_too_long"
)

const (
	// MaxWeek is the highest week ordinal a month selection accepts.
	MaxWeek = 5
	// MaxDays is the longest custom range, in days, a window may span.
	MaxDays = 366
)

// Window is an ordered, duplicate-free sequence of calendar days at UTC
// midnight. An empty window always carries a Reason.
type Window struct {
	Days   []time.Time
	Reason EmptyReason
}

func empty(r EmptyReason) Window {
	return Window{Reason: r}
}

// Empty reports whether the window contains no days.
func (w Window) Empty() bool { return len(w.Days) == 0 }

// First returns the first day of the window and false if it is empty.
func (w Window) First() (time.Time, bool) {
	if w.Empty() {
		return time.Time{}, false
	}
	return w.Days[0], true
}

// Last returns the last day of the window and false if it is empty.
func (w Window) Last() (time.Time, bool) {
	if w.Empty() {
		return time.Time{}, false
	}
	return w.Days[len(w.Days)-1], true
}

// Dates returns the window days formatted as "2006-01-02".
func (w Window) Dates() []string {
	out := make([]string, len(w.Days))
	for i, d := range w.Days {
		out[i] = timecalc.FormatDate(d)
	}
	return out
}

// Contains reports whether the given "2006-01-02" date is a day of w.
func (w Window) Contains(date string) bool {
	d, ok := timecalc.ParseDate(date)
	if !ok {
		return false
	}
	for _, day := range w.Days {
		if day.Equal(d) {
			return true
		}
	}
	return false
}

// Label returns a short description such as "2025-06-02 – 2025-06-08".
func (w Window) Label() string {
	first, ok := w.First()
	if !ok {
		return "(empty)"
	}
	last, _ := w.Last()
	if first.Equal(last) {
		return timecalc.FormatDate(first)
	}
	return timecalc.FormatDate(first) + " – " + timecalc.FormatDate(last)
}

// WeekLabel returns the ISO week label, such as "2025-W23", when every day
// of w falls in the same ISO week.
func (w Window) WeekLabel() (string, bool) {
	first, ok := w.First()
	if !ok {
		return "", false
	}
	last, _ := w.Last()
	label := timecalc.ISOWeekLabel(first)
	if timecalc.ISOWeekLabel(last) != label {
		return "", false
	}
	return label, true
}

// Build returns the window described by sel. It never fails: every invalid
// or inconsistent selection yields an empty window with a reason.
func Build(sel model.Selection) Window {
	switch sel.Mode {
	case model.ModeCustom:
		return CustomRange(sel.DateFrom, sel.DateTo)
	case model.ModeMonth:
		return MonthWeek(sel.Year, sel.Month, sel.Week)
	default:
		return empty(ReasonUnknownMode)
	}
}

// CustomRange returns every day from "from" to "to" inclusive. Ranges longer
// than MaxDays yield an empty window.
func CustomRange(from, to string) Window {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return empty(ReasonIncompleteRange)
	}
	f, ok := timecalc.ParseDate(from)
	if !ok {
		return empty(ReasonInvalidDate)
	}
	t, ok := timecalc.ParseDate(to)
	if !ok {
		return empty(ReasonInvalidDate)
	}
	if t.Before(f) {
		return empty(ReasonReversedRange)
	}
	if f.AddDate(0, 0, MaxDays-1).Before(t) {
		return empty(ReasonRangeTooLong)
	}
	return Window{Days: timecalc.Days(f, t)}
}

// MonthWeek returns the days of the given month, or of one Monday-anchored
// week of it. Week n is the week containing the month's first day plus
// (n-1)*7 days, clipped to the month. If that week begins after the month's
// last day the week does not exist and the window is empty.
func MonthWeek(year, month int, week string) Window {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return empty(ReasonInvalidMonth)
	}
	first, last := timecalc.MonthBounds(year, time.Month(month))

	week = strings.TrimSpace(strings.ToLower(week))
	if week == "" || week == model.WeekAll {
		return Window{Days: timecalc.Days(first, last)}
	}

	n, err := strconv.Atoi(week)
	if err != nil || n < 1 || n > MaxWeek {
		return empty(ReasonInvalidWeek)
	}

	start := timecalc.WeekStart(first.AddDate(0, 0, (n-1)*7))
	if start.After(last) {
		return empty(ReasonWeekNotInMonth)
	}
	end := start.AddDate(0, 0, 6)
	if start.Before(first) {
		start = first
	}
	if end.After(last) {
		end = last
	}
	return Window{Days: timecalc.Days(start, end)}
}

// CurrentMonth returns the whole-month selection containing now. It is the
// selection used when an employee has none stored.
func CurrentMonth(now time.Time) model.Selection {
	return model.MonthWeek(now.Year(), int(now.Month()), model.WeekAll)
}
