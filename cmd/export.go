package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/export"
	"github.com/Tiliavir/daily-work-report/internal/report"
)

var (
	exportWindow windowFlags
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the report of a period to a file or stdout",
	Example: `  dwr export --month 6 --format csv --output june.csv
  dwr export --from 2025-06-02 --to 2025-06-06 --format yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportWindow.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatCSV, "Output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	r := buildReport(exportWindow, time.Now())

	if exportOutput == "" || exportOutput == "-" {
		if err := export.Write(os.Stdout, r, exportFormat); err != nil {
			fail(exitUsage, err)
		}
		return nil
	}

	if err := writeExportFile(exportOutput, r, exportFormat); err != nil {
		fail(exitStorage, err)
	}
	log.Debug("report exported", zap.String("path", exportOutput), zap.String("format", exportFormat))
	fmt.Printf("Exported %d entries (%s) to %s\n", r.EntryCount(), r.Window.Label(), exportOutput)
	return nil
}

// writeExportFile renders r into a temp file next to path and renames it
// into place, so a failed render never leaves a truncated file.
func writeExportFile(path string, r report.Report, format string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dwr-export-*")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.Write(tmp, r, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming export file: %w", err)
	}
	return nil
}
