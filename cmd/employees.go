package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List employees with stored entries",
	Args:  cobra.NoArgs,
	RunE:  runEmployees,
}

func runEmployees(cmd *cobra.Command, args []string) error {
	ids, err := store.Employees()
	if err != nil {
		fail(exitStorage, err)
	}
	if len(ids) == 0 {
		fmt.Println("No employees found.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
