package msgraph_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/msgraph"
	"github.com/Tiliavir/daily-work-report/internal/storage"
)

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	return msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start:       msgraph.EventDateTime{DateTime: start, TimeZone: "UTC"},
		End:         msgraph.EventDateTime{DateTime: end, TimeZone: "UTC"},
	}
}

func newOpts(t *testing.T) msgraph.SyncOptions {
	t.Helper()
	return msgraph.SyncOptions{
		Store:    storage.NewFileStore(filepath.Join(t.TempDir(), "entries")),
		Employee: "jdoe",
		Job:      "00-000",
		Project:  "Meetings",
		Out:      io.Discard,
	}
}

func loadEntries(t *testing.T, opts msgraph.SyncOptions) []model.TimeEntry {
	t.Helper()
	entries, err := storage.ListEntries(opts.Store, opts.Employee)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	return entries
}

func TestMapEventToEntry(t *testing.T) {
	event := makeEvent("ext-id-1", "Sprint Planning", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	entry, err := msgraph.MapEventToEntry(event, "UTC", "24-017", "Meetings")
	if err != nil {
		t.Fatalf("MapEventToEntry: %v", err)
	}
	if entry.ExternalID != "ext-id-1" {
		t.Errorf("ExternalID = %q, want %q", entry.ExternalID, "ext-id-1")
	}
	if entry.Date != "2026-02-27" {
		t.Errorf("Date = %q, want 2026-02-27", entry.Date)
	}
	if entry.StartTime != "09:00" || entry.EndTime != "10:30" {
		t.Errorf("times = %s–%s, want 09:00–10:30", entry.StartTime, entry.EndTime)
	}
	if entry.Description != "Sprint Planning" {
		t.Errorf("Description = %q, want %q", entry.Description, "Sprint Planning")
	}
	if entry.JobNumber != "24-017" || entry.ProjectName != "Meetings" {
		t.Errorf("job/project = %q/%q", entry.JobNumber, entry.ProjectName)
	}
	if entry.Source != msgraph.SourceOutlook {
		t.Errorf("Source = %q, want %q", entry.Source, msgraph.SourceOutlook)
	}
	if entry.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestMapEventToEntry_WithLocation(t *testing.T) {
	event := makeEvent("ext-id-2", "Standup", "2026-02-27T10:00:00", "2026-02-27T10:15:00")
	event.BodyPreview = "Daily standup"
	event.Location.DisplayName = "Zoom"

	entry, err := msgraph.MapEventToEntry(event, "UTC", "", "Meetings")
	if err != nil {
		t.Fatalf("MapEventToEntry: %v", err)
	}
	if entry.Description != "Standup\nDaily standup\nZoom" {
		t.Errorf("Description = %q, want %q", entry.Description, "Standup\nDaily standup\nZoom")
	}
}

func TestMapEventToEntry_OffsetAndFraction(t *testing.T) {
	event := makeEvent("ext-3", "Client call", "2026-02-27T13:00:00.0000000", "2026-02-27T14:45:00+01:00")
	entry, err := msgraph.MapEventToEntry(event, "Europe/Berlin", "", "Meetings")
	if err != nil {
		t.Fatalf("MapEventToEntry: %v", err)
	}
	if entry.StartTime != "13:00" || entry.EndTime != "14:45" {
		t.Errorf("times = %s–%s, want 13:00–14:45", entry.StartTime, entry.EndTime)
	}
}

func TestMapEventToEntry_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		event msgraph.CalendarEvent
	}{
		{"overnight", makeEvent("x", "Night shift", "2026-02-27T22:00:00", "2026-02-28T02:00:00")},
		{"bad start", makeEvent("x", "Broken", "yesterday", "2026-02-27T10:00:00")},
		{"bad end", makeEvent("x", "Broken", "2026-02-27T09:00:00", "later")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := msgraph.MapEventToEntry(tt.event, "UTC", "", "Meetings"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSyncEvents_Import(t *testing.T) {
	opts := newOpts(t)
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}

	result, err := msgraph.SyncEvents(events, opts, "UTC")
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if result.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", result.Skipped)
	}

	entries := loadEntries(t, opts)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ExternalID != "ext-1" {
		t.Errorf("ExternalID = %q, want %q", entries[0].ExternalID, "ext-1")
	}
}

func TestSyncEvents_Idempotent(t *testing.T) {
	opts := newOpts(t)
	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00"),
	}

	r1, err := msgraph.SyncEvents(events, opts, "UTC")
	if err != nil {
		t.Fatalf("first SyncEvents: %v", err)
	}
	if r1.Imported != 1 {
		t.Errorf("first sync: Imported = %d, want 1", r1.Imported)
	}

	// Second sync must not duplicate.
	r2, err := msgraph.SyncEvents(events, opts, "UTC")
	if err != nil {
		t.Fatalf("second SyncEvents: %v", err)
	}
	if r2.Imported != 0 {
		t.Errorf("second sync: Imported = %d, want 0 (idempotent)", r2.Imported)
	}
	if r2.Skipped != 1 {
		t.Errorf("second sync: Skipped = %d, want 1", r2.Skipped)
	}

	if n := len(loadEntries(t, opts)); n != 1 {
		t.Fatalf("entries = %d after 2 syncs, want 1", n)
	}
}

func TestSyncEvents_UpdateKeepsUserAssignments(t *testing.T) {
	opts := newOpts(t)
	event := makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00")

	if _, err := msgraph.SyncEvents([]msgraph.CalendarEvent{event}, opts, "UTC"); err != nil {
		t.Fatalf("first SyncEvents: %v", err)
	}

	// The user books the imported meeting onto a real job.
	imported := loadEntries(t, opts)[0]
	imported.JobNumber = "24-017"
	imported.ProjectName = "City Library"
	if err := storage.UpdateEntry(opts.Store, opts.Employee, imported); err != nil {
		t.Fatal(err)
	}

	event.Subject = "Architecture Board (updated)"
	event.End.DateTime = "2026-02-27T11:00:00"

	r2, err := msgraph.SyncEvents([]msgraph.CalendarEvent{event}, opts, "UTC")
	if err != nil {
		t.Fatalf("second SyncEvents: %v", err)
	}
	if r2.Updated != 1 {
		t.Errorf("Updated = %d, want 1", r2.Updated)
	}

	entries := loadEntries(t, opts)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != imported.ID {
		t.Errorf("ID = %q, want preserved %q", got.ID, imported.ID)
	}
	if got.Description != "Architecture Board (updated)" || got.EndTime != "11:00" {
		t.Errorf("entry not updated: %+v", got)
	}
	if got.JobNumber != "24-017" || got.ProjectName != "City Library" {
		t.Errorf("user job/project overwritten: %q/%q", got.JobNumber, got.ProjectName)
	}
}

func TestSyncEvents_SkipFiltered(t *testing.T) {
	opts := newOpts(t)

	tests := []struct {
		name  string
		event msgraph.CalendarEvent
	}{
		{
			name: "cancelled",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c1", "Cancelled", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.IsCancelled = true
				return e
			}(),
		},
		{
			name: "all-day",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c2", "All Day", "2026-02-27T00:00:00", "2026-02-28T00:00:00")
				e.IsAllDay = true
				return e
			}(),
		},
		{
			name: "private",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c3", "Private", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.Sensitivity = "private"
				return e
			}(),
		},
		{
			name: "free",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c4", "Free Block", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.ShowAs = "free"
				return e
			}(),
		},
		{
			name:  "no times",
			event: makeEvent("c5", "Placeholder", "", ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := msgraph.SyncEvents([]msgraph.CalendarEvent{tt.event}, opts, "UTC")
			if err != nil {
				t.Fatalf("SyncEvents: %v", err)
			}
			if r.Imported != 0 {
				t.Errorf("expected 0 imported for %s event, got %d", tt.name, r.Imported)
			}
		})
	}
}

func TestSyncEvents_CountsMappingErrors(t *testing.T) {
	opts := newOpts(t)
	events := []msgraph.CalendarEvent{
		makeEvent("ok", "Review", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
		makeEvent("night", "Night shift", "2026-02-27T22:00:00", "2026-02-28T02:00:00"),
	}
	r, err := msgraph.SyncEvents(events, opts, "UTC")
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if r.Imported != 1 || r.Errors != 1 {
		t.Errorf("result = %+v, want 1 imported and 1 error", r)
	}
}

func TestSyncEvents_DryRun(t *testing.T) {
	opts := newOpts(t)
	opts.DryRun = true
	events := []msgraph.CalendarEvent{
		makeEvent("ext-dry", "Dry Run Event", "2026-02-27T09:00:00", "2026-02-27T10:00:00"),
	}

	result, err := msgraph.SyncEvents(events, opts, "UTC")
	if err != nil {
		t.Fatalf("SyncEvents dry-run: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("dry-run Imported = %d, want 1", result.Imported)
	}

	// Nothing should be persisted.
	if n := len(loadEntries(t, opts)); n != 0 {
		t.Errorf("dry-run wrote %d entries, want 0", n)
	}
}

func TestSyncEvents_ExternalIDPreservesManualEntries(t *testing.T) {
	opts := newOpts(t)

	// Pre-existing manual entry on the same day.
	manual := model.TimeEntry{
		ID:          "manual-1",
		Date:        "2026-02-27",
		StartTime:   "09:00",
		EndTime:     "10:00",
		JobNumber:   "24-017",
		ProjectName: "Work",
		Source:      "manual",
	}
	if err := storage.CreateEntry(opts.Store, opts.Employee, manual); err != nil {
		t.Fatalf("inserting manual entry: %v", err)
	}

	events := []msgraph.CalendarEvent{
		makeEvent("ext-1", "Meeting", "2026-02-27T11:00:00", "2026-02-27T12:00:00"),
	}
	if _, err := msgraph.SyncEvents(events, opts, "UTC"); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	entries := loadEntries(t, opts)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (manual + imported)", len(entries))
	}
	if entries[0] != manual {
		t.Errorf("manual entry changed: %+v", entries[0])
	}
}
