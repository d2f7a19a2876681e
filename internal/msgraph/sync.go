package msgraph

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/storage"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// SourceOutlook marks entries imported from the calendar.
const SourceOutlook = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Store    storage.Store
	Employee string
	DryRun   bool
	Job      string
	Project  string
	// Out receives progress lines; os.Stdout when nil.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	// Try RFC3339Nano.
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildDescription combines subject, bodyPreview and location.
func buildDescription(event CalendarEvent) string {
	parts := []string{event.Subject}
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	return strings.Join(parts, "\n")
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a time entry. Events
// that end on a later day than they start cannot be expressed as a single
// entry and are rejected.
func MapEventToEntry(event CalendarEvent, timezone, job, project string) (model.TimeEntry, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing end time: %w", err)
	}
	if !timecalc.SameDay(startTime, endTime) {
		return model.TimeEntry{}, fmt.Errorf("event spans midnight (%s – %s)",
			startTime.Format("2006-01-02 15:04"), endTime.Format("2006-01-02 15:04"))
	}

	return model.TimeEntry{
		ID:          timecalc.GenerateID(startTime),
		Date:        timecalc.FormatDate(startTime),
		StartTime:   startTime.Format(timecalc.ClockLayout),
		EndTime:     endTime.Format(timecalc.ClockLayout),
		JobNumber:   job,
		ProjectName: project,
		Description: buildDescription(event),
		Source:      SourceOutlook,
		ExternalID:  event.ID,
	}, nil
}

func sameContent(a, b model.TimeEntry) bool {
	return a.Date == b.Date && a.StartTime == b.StartTime &&
		a.EndTime == b.EndTime && a.Description == b.Description
}

// SyncEvents merges Graph events into the employee's entry set and writes
// it back once. Previously imported events are matched by external id so
// repeated syncs do not duplicate entries; manual entries are never touched.
func SyncEvents(events []CalendarEvent, opts SyncOptions, timezone string) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	f, err := opts.Store.Load(opts.Employee)
	if err != nil {
		return result, fmt.Errorf("loading entries for %s: %w", opts.Employee, err)
	}

	changed := false
	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		entry, err := MapEventToEntry(event, timezone, opts.Job, opts.Project)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		dur := timecalc.FormatDuration(timecalc.ComputeDuration(entry.StartTime, entry.EndTime))

		found := f.FindByExternalID(event.ID)
		if found != nil {
			if sameContent(*found, entry) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			// Keep the entry's ID and any job/project the user assigned since.
			entry.ID = found.ID
			entry.JobNumber = found.JobNumber
			entry.ProjectName = found.ProjectName
			*found = entry
			changed = true
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", event.Subject, dur)
			result.Updated++
			continue
		}

		f.Entries = append(f.Entries, entry)
		changed = true
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, dur)
		result.Imported++
	}

	if changed && !opts.DryRun {
		if err := opts.Store.Save(f); err != nil {
			return result, fmt.Errorf("saving entries for %s: %w", opts.Employee, err)
		}
	}
	return result, nil
}
