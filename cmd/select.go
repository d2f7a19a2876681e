package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/storage"
)

var selectWindow windowFlags

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Store or show the default report period",
	Long: `Store the period used by list, report and export when they are run
without window flags. Without flags the stored selection is shown.`,
	Example: `  dwr select --year 2025 --month 6 --week all
  dwr select --from 2025-06-02 --to 2025-06-13`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

func init() {
	selectWindow.register(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	emp := employee()
	now := time.Now()

	if !selectWindow.given() {
		stored, err := storage.LoadSelection(store, emp)
		if err != nil {
			fail(exitStorage, err)
		}
		if stored == nil {
			sel := period.CurrentMonth(now)
			fmt.Printf("No stored selection; using %s → %s\n", describeSelection(sel), describeWindow(period.Build(sel)))
			return nil
		}
		fmt.Printf("Selection: %s → %s\n", describeSelection(*stored), describeWindow(period.Build(*stored)))
		return nil
	}

	sel := selectWindow.selection(nil, now)
	if err := storage.SaveSelection(store, emp, sel); err != nil {
		fail(exitStorage, err)
	}
	fmt.Printf("Stored selection: %s → %s\n", describeSelection(sel), describeWindow(period.Build(sel)))
	return nil
}

func describeSelection(sel model.Selection) string {
	switch sel.Mode {
	case model.ModeCustom:
		return fmt.Sprintf("custom %q to %q", sel.DateFrom, sel.DateTo)
	case model.ModeMonth:
		week := sel.Week
		if week == "" {
			week = model.WeekAll
		}
		return fmt.Sprintf("month %04d-%02d, week %s", sel.Year, sel.Month, week)
	default:
		return fmt.Sprintf("unknown mode %q", sel.Mode)
	}
}

func describeWindow(w period.Window) string {
	if w.Empty() {
		return fmt.Sprintf("no days (%s)", w.Reason)
	}
	return fmt.Sprintf("%s (%d days)", w.Label(), len(w.Days))
}
