package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/storage"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// entryFlags are the editable entry fields shared by add and edit.
type entryFlags struct {
	date    string
	start   string
	end     string
	job     string
	project string
	desc    string
}

func (f *entryFlags) register(cmd *cobra.Command, dateDefault string) {
	cmd.Flags().StringVar(&f.date, "date", "", "Day of the entry (YYYY-MM-DD)"+dateDefault)
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&f.job, "job", "", "Job number")
	cmd.Flags().StringVar(&f.project, "project", "", "Project name")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description of the work")
}

// apply copies the flags that were set on cmd into e.
func (f entryFlags) apply(cmd *cobra.Command, e *model.TimeEntry) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("date", &e.Date, f.date)
	set("start", &e.StartTime, f.start)
	set("end", &e.EndTime, f.end)
	set("job", &e.JobNumber, f.job)
	set("project", &e.ProjectName, f.project)
	set("desc", &e.Description, f.desc)
}

// warnZeroDuration tells the user when an entry will count as zero time.
func warnZeroDuration(e model.TimeEntry) {
	if e.StartTime != "" && e.EndTime != "" && timecalc.ComputeDuration(e.StartTime, e.EndTime) == 0 && e.StartTime != e.EndTime {
		fmt.Fprintf(os.Stderr, "Warning: end %s is before start %s; the entry counts as 0:00\n", e.EndTime, e.StartTime)
	}
}

var addFlags entryFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a work entry",
	Example: `  dwr add --start 08:00 --end 12:00 --job 24-017 --project "City Library" --desc "Site survey"
  dwr add --date 2025-06-02 --start 13:00 --end 14:30 --job 23-101`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addFlags.register(addCmd, " (default: today)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	now := time.Now()
	emp := employee()

	e := model.TimeEntry{
		ID:     timecalc.GenerateID(now),
		Date:   timecalc.FormatDate(now),
		Source: model.SourceManual,
	}
	addFlags.apply(cmd, &e)
	if err := e.Validate(); err != nil {
		fail(exitUsage, err)
	}
	warnZeroDuration(e)

	if err := storage.CreateEntry(store, emp, e); err != nil {
		fail(exitStorage, err)
	}
	log.Debug("entry added", zap.String("employee", emp), zap.String("id", e.ID))

	fmt.Printf("Added %s on %s (%s)\n", e.ID, e.Date, timecalc.ComputeDuration(e.StartTime, e.EndTime))
	return nil
}
