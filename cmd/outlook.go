package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/msgraph"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncDryRun  bool
	outlookSyncJob     string
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as work entries",
	Long: `Import Outlook calendar events as work entries. Each event becomes an
entry on its day with the event subject as description. Re-running the sync
updates imported entries instead of duplicating them; job numbers and
project names assigned after the import are kept.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD); default today")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncJob, "job", "", "Job number for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project name for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times, e.g. Europe/Berlin (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncWindow resolves the sync flags into the days to import.
func syncWindow(date, from, to string, now time.Time) (period.Window, error) {
	today := timecalc.FormatDate(now)
	switch {
	case date != "":
		from, to = date, date
	case from != "" || to != "":
		if from == "" {
			return period.Window{}, fmt.Errorf("--from is required when --to is specified")
		}
		if to == "" {
			to = today
		}
	default:
		from, to = today, today
	}

	w := period.CustomRange(from, to)
	if w.Empty() {
		return w, fmt.Errorf("invalid sync range %s to %s: %s", from, to, w.Reason)
	}
	return w, nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	emp := employee()

	w, err := syncWindow(outlookSyncDate, outlookSyncFrom, outlookSyncTo, time.Now())
	if err != nil {
		fail(exitUsage, err)
	}

	timezone := firstNonEmpty(outlookSyncTZ, cfg.Outlook.Timezone)
	loc := time.Local
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			fail(exitUsage, fmt.Errorf("invalid --timezone %q: %w", timezone, err))
		}
		loc = l
	}
	first, _ := w.First()
	last, _ := w.Last()
	from := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	to := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events for %s (%s)%s...\n", emp, w.Label(), dryTag)
	fmt.Println()

	ctx := context.Background()
	tokens := msgraph.NewTokenStore(base)

	tok, oauthCfg, err := msgraph.Authenticate(ctx, tokens, cfg.Outlook.TenantID, cfg.Outlook.ClientID, os.Stdout)
	if err != nil {
		fail(exitUsage, fmt.Errorf("authentication failed: %w", err))
	}
	client := msgraph.NewClient(ctx, tok, oauthCfg, tokens)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fail(exitUsage, fmt.Errorf("fetching calendar events: %w", err))
	}
	log.Debug("calendar events fetched", zap.Int("count", len(events)))

	result, err := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Store:    store,
		Employee: emp,
		DryRun:   outlookSyncDryRun,
		Job:      firstNonEmpty(outlookSyncJob, cfg.Outlook.DefaultJob),
		Project:  firstNonEmpty(outlookSyncProject, cfg.Outlook.DefaultProject),
		Out:      os.Stdout,
	}, timezone)
	if err != nil {
		fail(exitStorage, err)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		exit(exitStorage)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
