package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/config"
	"github.com/Tiliavir/daily-work-report/internal/logger"
	"github.com/Tiliavir/daily-work-report/internal/storage"
)

// Exit codes.
const (
	exitUsage   = 1
	exitStorage = 2
)

var (
	flagEmployee string
	flagVerbose  bool
)

// Shared state set up by the root PersistentPreRunE.
var (
	base  string
	cfg   config.Config
	store storage.Store
	log   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dwr",
	Short: "Daily Work Report – log work entries and report them per period",
	Long: `dwr records daily work entries (date, start/end time, job number,
project, description) per employee and aggregates them into period reports
for a custom date range or a month / week of month.

All data lives in ~/.dwr/ (override with DWR_HOME).`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(exitUsage)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEmployee, "employee", "e", "", "Employee id (defaults to \"employee\" in config.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	base, err = storage.BaseDir()
	if err != nil {
		fail(exitStorage, err)
	}

	cfg, err = config.Load(base)
	if err != nil {
		fail(exitUsage, err)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Level: level, Format: cfg.Log.Format}, os.Stderr)

	store, err = storage.Open(cfg.Storage.Backend, cfg.Storage.Dir, cfg.Storage.SQLitePath)
	if err != nil {
		fail(exitStorage, err)
	}
	log.Debug("storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("base", base))
	return nil
}

// teardown closes the store and flushes the logger. It is safe to call more
// than once and before setup has finished.
func teardown(cmd *cobra.Command, args []string) error {
	if store != nil {
		if err := store.Close(); err != nil && log != nil {
			log.Warn("closing storage", zap.Error(err))
		}
		store = nil
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

// employee returns the employee the command acts on.
func employee() string {
	id := flagEmployee
	if id == "" {
		id = cfg.Employee
	}
	if id == "" {
		fail(exitUsage, errors.New(`no employee given: pass --employee or set "employee" in config.json`))
	}
	if err := storage.ValidateEmployee(id); err != nil {
		fail(exitUsage, err)
	}
	return id
}

// osExit is replaced in tests.
var osExit = os.Exit

// fail prints err to stderr and exits with code.
func fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	exit(code)
}

// exit releases the store and logger, which os.Exit would skip, then exits.
func exit(code int) {
	_ = teardown(nil, nil)
	osExit(code)
}
