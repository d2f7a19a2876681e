package export

import (
	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/report"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// DurationDoc is the serialized form of a duration.
type DurationDoc struct {
	Hours        int    `json:"hours" yaml:"hours"`
	Minutes      int    `json:"minutes" yaml:"minutes"`
	TotalMinutes int    `json:"total_minutes" yaml:"total_minutes"`
	Text         string `json:"text" yaml:"text"`
}

// EntryDoc is an entry together with its computed duration.
type EntryDoc struct {
	model.TimeEntry `yaml:",inline"`
	Duration        DurationDoc `json:"duration" yaml:"duration"`
}

// DayDoc is one day of a report.
type DayDoc struct {
	Date    string      `json:"date" yaml:"date"`
	Weekday string      `json:"weekday" yaml:"weekday"`
	Entries []EntryDoc  `json:"entries" yaml:"entries"`
	Total   DurationDoc `json:"total" yaml:"total"`
}

// JobDoc is the total booked on one job number.
type JobDoc struct {
	JobNumber   string      `json:"job_number" yaml:"job_number"`
	ProjectName string      `json:"project_name" yaml:"project_name"`
	Total       DurationDoc `json:"total" yaml:"total"`
}

// Document is the serialized form of a report, shared by the file exports
// and the HTTP API.
type Document struct {
	Employee    string             `json:"employee" yaml:"employee"`
	From        string             `json:"from,omitempty" yaml:"from,omitempty"`
	To          string             `json:"to,omitempty" yaml:"to,omitempty"`
	EmptyReason period.EmptyReason `json:"empty_reason,omitempty" yaml:"empty_reason,omitempty"`
	Days        []DayDoc           `json:"days" yaml:"days"`
	Jobs        []JobDoc           `json:"jobs" yaml:"jobs"`
	Total       DurationDoc        `json:"total" yaml:"total"`
}

// NewDurationDoc converts d.
func NewDurationDoc(d timecalc.Duration) DurationDoc {
	return DurationDoc{
		Hours:        d.Hours(),
		Minutes:      d.Minutes(),
		TotalMinutes: int(d),
		Text:         d.String(),
	}
}

// NewDocument converts r.
func NewDocument(r report.Report) Document {
	doc := Document{
		Employee:    r.Employee,
		EmptyReason: r.Window.Reason,
		Days:        make([]DayDoc, 0, len(r.Days)),
		Jobs:        []JobDoc{},
		Total:       NewDurationDoc(r.Total),
	}
	if first, ok := r.Window.First(); ok {
		last, _ := r.Window.Last()
		doc.From = timecalc.FormatDate(first)
		doc.To = timecalc.FormatDate(last)
	}
	for _, d := range r.Days {
		day := DayDoc{
			Date:    timecalc.FormatDate(d.Date),
			Weekday: d.Date.Weekday().String()[:3],
			Entries: make([]EntryDoc, 0, len(d.Entries)),
			Total:   NewDurationDoc(d.Total),
		}
		for _, e := range d.Entries {
			day.Entries = append(day.Entries, EntryDoc{
				TimeEntry: e,
				Duration:  NewDurationDoc(report.EntryDuration(e)),
			})
		}
		doc.Days = append(doc.Days, day)
	}
	for _, j := range r.ByJob() {
		doc.Jobs = append(doc.Jobs, JobDoc{
			JobNumber:   j.JobNumber,
			ProjectName: j.ProjectName,
			Total:       NewDurationDoc(j.Total),
		})
	}
	return doc
}
