package report

import (
	"sort"
	"time"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// DayReport is one day of a report. Days without entries are kept so that
// a rendered report shows the whole window.
type DayReport struct {
	Date    time.Time
	Entries []model.TimeEntry
	Total   timecalc.Duration
}

// JobTotal is the time booked on one job number within a report.
type JobTotal struct {
	JobNumber   string
	ProjectName string
	Total       timecalc.Duration
}

// Report is the aggregated view of an employee's entries over a window.
type Report struct {
	Employee string
	Window   period.Window
	Days     []DayReport
	Total    timecalc.Duration
}

// Build aggregates entries over w.
func Build(employee string, entries []model.TimeEntry, w period.Window) Report {
	buckets := BucketEntries(entries, w)
	r := Report{
		Employee: employee,
		Window:   w,
		Days:     make([]DayReport, 0, len(w.Days)),
		Total:    PeriodTotal(w, buckets),
	}
	for _, d := range w.Days {
		bucket := buckets[timecalc.FormatDate(d)]
		r.Days = append(r.Days, DayReport{
			Date:    d,
			Entries: bucket,
			Total:   DayTotal(bucket),
		})
	}
	return r
}

// EntryCount returns the number of entries in the report.
func (r Report) EntryCount() int {
	n := 0
	for _, d := range r.Days {
		n += len(d.Entries)
	}
	return n
}

// ByJob sums the report per job number, ordered by job number. Entries
// without a job number are grouped under the empty job. The project name is
// taken from the first entry seen for a job.
func (r Report) ByJob() []JobTotal {
	totals := map[string]*JobTotal{}
	var order []string
	for _, d := range r.Days {
		for _, e := range d.Entries {
			jt, ok := totals[e.JobNumber]
			if !ok {
				jt = &JobTotal{JobNumber: e.JobNumber, ProjectName: e.ProjectName}
				totals[e.JobNumber] = jt
				order = append(order, e.JobNumber)
			}
			jt.Total += EntryDuration(e)
		}
	}
	sort.Strings(order)

	out := make([]JobTotal, 0, len(order))
	for _, job := range order {
		out = append(out, *totals[job])
	}
	return out
}
