package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/report"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

var listWindow windowFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List work entries of a period",
	Long: `List work entries grouped by day. Without window flags the stored
selection (see "dwr select") is used, or the current month.`,
	Example: `  dwr list --week 2
  dwr list --from 2025-06-02 --to 2025-06-06`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listWindow.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	r := buildReport(listWindow, time.Now())
	printList(os.Stdout, r)
	return nil
}

// buildReport loads the employee's entries and aggregates them over the
// window selected by flags.
func buildReport(flags windowFlags, now time.Time) report.Report {
	emp := employee()
	f, err := store.Load(emp)
	if err != nil {
		fail(exitStorage, err)
	}
	w := period.Build(flags.selection(f.Selection, now))
	return report.Build(emp, f.Entries, w)
}

// printList prints the days of r that have entries, with per-day totals.
func printList(out io.Writer, r report.Report) {
	if r.Window.Empty() {
		fmt.Fprintf(out, "No days selected (%s).\n", r.Window.Reason)
		return
	}
	if r.EntryCount() == 0 {
		fmt.Fprintf(out, "No entries found for %s.\n", r.Window.Label())
		return
	}

	for _, d := range r.Days {
		if len(d.Entries) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s %s  %s\n", timecalc.FormatDate(d.Date), d.Date.Format("Mon"), d.Total)
		for _, e := range d.Entries {
			fmt.Fprintf(out, "  %s\n", entryLine(e))
		}
	}
	fmt.Fprintf(out, "Total %s: %s\n", r.Window.Label(), timecalc.FormatDuration(r.Total))
}

func entryLine(e model.TimeEntry) string {
	start, end := e.StartTime, e.EndTime
	if start == "" {
		start = "--:--"
	}
	if end == "" {
		end = "--:--"
	}

	parts := []string{start + "–" + end}
	for _, s := range []string{e.JobNumber, e.ProjectName, firstLine(e.Description)} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return fmt.Sprintf("%s (%s)  [%s]", strings.Join(parts, "  "), report.EntryDuration(e), e.ID)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
