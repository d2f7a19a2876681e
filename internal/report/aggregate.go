// Package report aggregates time entries over a reporting window into
// per-day buckets and totals.
//
// All functions are pure: they never modify the entries or the window they
// are given, and they never fail. Entries with an unparseable date are left
// out; entries with missing or reversed times count as zero.
package report

import (
	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// Buckets maps a "2006-01-02" date to the entries of that day in insertion
// order.
type Buckets map[string][]model.TimeEntry

// EntryDuration returns the duration of a single entry.
func EntryDuration(e model.TimeEntry) timecalc.Duration {
	return timecalc.ComputeDuration(e.StartTime, e.EndTime)
}

// BucketEntries groups the entries that fall on a day of w by date.
func BucketEntries(entries []model.TimeEntry, w period.Window) Buckets {
	inWindow := make(map[string]bool, len(w.Days))
	for _, d := range w.Days {
		inWindow[timecalc.FormatDate(d)] = true
	}

	buckets := Buckets{}
	for _, e := range entries {
		d, ok := timecalc.ParseDate(e.Date)
		if !ok {
			continue
		}
		if !inWindow[timecalc.FormatDate(d)] {
			continue
		}
		buckets[e.Date] = append(buckets[e.Date], e)
	}
	return buckets
}

// DayTotal sums the durations of the given entries.
func DayTotal(entries []model.TimeEntry) timecalc.Duration {
	var total timecalc.Duration
	for _, e := range entries {
		total += EntryDuration(e)
	}
	return total
}

// PeriodTotal sums the day totals of every day of w. Days without a bucket
// count as zero.
func PeriodTotal(w period.Window, buckets Buckets) timecalc.Duration {
	var total timecalc.Duration
	for _, d := range w.Days {
		total += DayTotal(buckets[timecalc.FormatDate(d)])
	}
	return total
}
