package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/storage"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

var editFlags entryFlags

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an existing entry",
	Long: `Change fields of an existing entry. Only the flags given are changed;
all other fields keep their value.`,
	Example: `  dwr edit 20250602-080000-k3x9a --end 12:30 --job 24-017`,
	Args:    cobra.ExactArgs(1),
	RunE:    runEdit,
}

func init() {
	editFlags.register(editCmd, "")
}

func runEdit(cmd *cobra.Command, args []string) error {
	emp := employee()

	e, err := storage.GetEntry(store, emp, args[0])
	if errors.Is(err, storage.ErrNotFound) {
		fail(exitUsage, err)
	}
	if err != nil {
		fail(exitStorage, err)
	}

	editFlags.apply(cmd, &e)
	if err := e.Validate(); err != nil {
		fail(exitUsage, err)
	}
	warnZeroDuration(e)

	if err := storage.UpdateEntry(store, emp, e); err != nil {
		fail(exitStorage, err)
	}
	fmt.Printf("Updated %s on %s (%s)\n", e.ID, e.Date, timecalc.ComputeDuration(e.StartTime, e.EndTime))
	return nil
}
