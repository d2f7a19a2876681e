package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/report"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

func entry(id, date, start, end string) model.TimeEntry {
	return model.TimeEntry{ID: id, Date: date, StartTime: start, EndTime: end, Source: "manual"}
}

func TestPeriodTotal_SumsSameDay(t *testing.T) {
	entries := []model.TimeEntry{
		entry("a", "2025-06-02", "08:00", "09:00"),
		entry("b", "2025-06-02", "09:00", "09:45"),
		entry("c", "2025-06-02", "10:00", "12:30"),
	}
	w := period.CustomRange("2025-06-02", "2025-06-02")

	buckets := report.BucketEntries(entries, w)
	require.Len(t, buckets["2025-06-02"], 3)

	day := report.DayTotal(buckets["2025-06-02"])
	assert.Equal(t, 4, day.Hours())
	assert.Equal(t, 15, day.Minutes())

	total := report.PeriodTotal(w, buckets)
	assert.Equal(t, "4:15", total.String())
}

func TestBucketEntries_ExcludesOutsideWindow(t *testing.T) {
	entries := []model.TimeEntry{
		entry("in", "2025-06-03", "08:00", "10:00"),
		entry("before", "2025-06-01", "08:00", "18:00"),
		entry("after", "2025-06-09", "08:00", "18:00"),
	}
	w := period.MonthWeek(2025, 6, "2")

	buckets := report.BucketEntries(entries, w)
	assert.Len(t, buckets, 1)
	assert.Equal(t, "in", buckets["2025-06-03"][0].ID)
	assert.Equal(t, timecalc.Duration(120), report.PeriodTotal(w, buckets))
}

func TestBucketEntries_DropsUnparseableDates(t *testing.T) {
	entries := []model.TimeEntry{
		entry("ok", "2025-06-02", "08:00", "09:00"),
		entry("empty", "", "08:00", "09:00"),
		entry("garbage", "June 2nd", "08:00", "09:00"),
		entry("impossible", "2025-06-31", "08:00", "09:00"),
		entry("padded", " 2025-06-02", "08:00", "09:00"),
	}
	w := period.MonthWeek(2025, 6, model.WeekAll)

	buckets := report.BucketEntries(entries, w)
	require.Len(t, buckets, 1)
	require.Len(t, buckets["2025-06-02"], 1)
	assert.Equal(t, "ok", buckets["2025-06-02"][0].ID)
	assert.Equal(t, timecalc.Duration(60), report.PeriodTotal(w, buckets))
}

func TestBucketEntries_KeepsInsertionOrder(t *testing.T) {
	entries := []model.TimeEntry{
		entry("late", "2025-06-02", "16:00", "17:00"),
		entry("early", "2025-06-02", "07:00", "08:00"),
		entry("noon", "2025-06-02", "12:00", "13:00"),
	}
	buckets := report.BucketEntries(entries, period.CustomRange("2025-06-02", "2025-06-02"))

	var ids []string
	for _, e := range buckets["2025-06-02"] {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"late", "early", "noon"}, ids)
}

func TestMalformedTimesCountZero(t *testing.T) {
	entries := []model.TimeEntry{
		entry("reversed", "2025-06-02", "18:00", "09:30"),
		entry("open", "2025-06-02", "09:30", ""),
		entry("good", "2025-06-02", "09:30", "18:00"),
	}
	w := period.CustomRange("2025-06-02", "2025-06-02")
	buckets := report.BucketEntries(entries, w)

	assert.Len(t, buckets["2025-06-02"], 3)
	assert.Equal(t, "8:30", report.PeriodTotal(w, buckets).String())
}

func TestPeriodTotal_DecomposesOnce(t *testing.T) {
	// 40 minutes on each of three days is 2:00, not three rounded 0:40s.
	entries := []model.TimeEntry{
		entry("a", "2025-06-02", "08:00", "08:40"),
		entry("b", "2025-06-03", "08:00", "08:40"),
		entry("c", "2025-06-04", "08:00", "08:40"),
	}
	w := period.CustomRange("2025-06-01", "2025-06-07")
	total := report.PeriodTotal(w, report.BucketEntries(entries, w))
	assert.Equal(t, 2, total.Hours())
	assert.Equal(t, 0, total.Minutes())
}

func TestPeriodTotal_EmptyWindow(t *testing.T) {
	entries := []model.TimeEntry{entry("a", "2025-06-02", "08:00", "18:00")}
	w := period.CustomRange("2025-06-10", "2025-06-02")
	buckets := report.BucketEntries(entries, w)
	assert.Empty(t, buckets)
	assert.Equal(t, timecalc.Duration(0), report.PeriodTotal(w, buckets))
}

func TestAggregation_Idempotent(t *testing.T) {
	entries := []model.TimeEntry{
		entry("a", "2025-06-02", "08:00", "12:00"),
		entry("b", "2025-06-03", "13:00", "17:15"),
		entry("c", "2025-07-01", "08:00", "09:00"),
	}
	snapshot := append([]model.TimeEntry(nil), entries...)
	w := period.MonthWeek(2025, 6, model.WeekAll)

	b1 := report.BucketEntries(entries, w)
	b2 := report.BucketEntries(entries, w)
	assert.Equal(t, b1, b2)
	assert.Equal(t, report.PeriodTotal(w, b1), report.PeriodTotal(w, b2))
	assert.Equal(t, snapshot, entries, "input entries were modified")

	r1 := report.Build("jdoe", entries, w)
	r2 := report.Build("jdoe", entries, w)
	assert.Equal(t, r1, r2)
}

func TestBuild(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: "a", Date: "2025-06-02", StartTime: "08:00", EndTime: "12:00", JobNumber: "24-017", ProjectName: "Library"},
		{ID: "b", Date: "2025-06-02", StartTime: "13:00", EndTime: "14:30", JobNumber: "23-101", ProjectName: "School"},
		{ID: "c", Date: "2025-06-04", StartTime: "08:00", EndTime: "10:00", JobNumber: "24-017", ProjectName: "Library"},
		{ID: "d", Date: "2025-06-04", StartTime: "10:00", EndTime: "10:30"},
	}
	w := period.MonthWeek(2025, 6, "2")
	r := report.Build("jdoe", entries, w)

	require.Len(t, r.Days, 7)
	assert.Equal(t, "jdoe", r.Employee)
	assert.Equal(t, 4, r.EntryCount())
	assert.Equal(t, "5:30", r.Days[0].Total.String())
	assert.Empty(t, r.Days[1].Entries)
	assert.Equal(t, timecalc.Duration(0), r.Days[1].Total)
	assert.Equal(t, "2:30", r.Days[2].Total.String())
	assert.Equal(t, "8:00", r.Total.String())

	jobs := r.ByJob()
	require.Len(t, jobs, 3)
	assert.Equal(t, "", jobs[0].JobNumber)
	assert.Equal(t, timecalc.Duration(30), jobs[0].Total)
	assert.Equal(t, "23-101", jobs[1].JobNumber)
	assert.Equal(t, "24-017", jobs[2].JobNumber)
	assert.Equal(t, "Library", jobs[2].ProjectName)
	assert.Equal(t, "6:00", jobs[2].Total.String())
}
