package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/export"
)

var (
	reportWindow windowFlags
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the aggregated report of a period",
	Long: `Show every day of the selected period with its entries, day totals,
a per-job summary and the period total.

Without window flags the stored selection (see "dwr select") is used, or
the current month. A selection that does not describe any day (a reversed
range, week 5 of a four-week month, ...) gives an empty report.`,
	Example: `  dwr report
  dwr report --year 2025 --month 6 --week 2
  dwr report --from 2025-06-02 --to 2025-06-13 --format json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportWindow.register(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", export.FormatMD, "Output format: "+strings.Join(export.Formats, ", "))
}

func runReport(cmd *cobra.Command, args []string) error {
	r := buildReport(reportWindow, time.Now())
	if err := export.Write(os.Stdout, r, reportFormat); err != nil {
		fail(exitUsage, fmt.Errorf("rendering report: %w", err))
	}
	return nil
}
