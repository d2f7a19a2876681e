package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daily-work-report/internal/storage"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove entries",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	emp := employee()
	for _, id := range args {
		err := storage.DeleteEntry(store, emp, id)
		if errors.Is(err, storage.ErrNotFound) {
			fail(exitUsage, err)
		}
		if err != nil {
			fail(exitStorage, err)
		}
		fmt.Printf("Removed %s\n", id)
	}
	return nil
}
