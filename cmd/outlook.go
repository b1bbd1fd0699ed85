package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/app"
	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncStatus string
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import out-of-office days from Outlook as vacation days",
	Long: `Import Outlook calendar events shown as "out of office" as vacation days.
Days that already carry a note are left untouched. Without a range the
current month is synced.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncStatus, "status", "", "Vacation status for imported days (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date/--from/--to flags into an inclusive range.
func syncRange(date, from, to string, now time.Time) (time.Time, time.Time, error) {
	switch {
	case date != "":
		d, err := timecalc.ParseDate(date, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case from != "" || to != "":
		if from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		f, err := timecalc.ParseDate(from, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end := timecalc.EndOfDay(now)
		if to != "" {
			t, err := timecalc.ParseDate(to, now.Location())
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			end = timecalc.EndOfDay(t)
		}
		if end.Before(f) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return f, end, nil
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first, timecalc.EndOfDay(first.AddDate(0, 1, -1)), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(outlookSyncDate, outlookSyncFrom, outlookSyncTo, time.Now())
	if err != nil {
		return err
	}
	if outlookSyncStatus != "" {
		if _, ok := model.ParseStatus(outlookSyncStatus); !ok {
			return fmt.Errorf("invalid --status %q (want beantragt, genehmigt or abgelehnt)", outlookSyncStatus)
		}
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook vacation days (%s → %s)%s...\n",
		from.Format(model.DateLayout), to.Format(model.DateLayout), dryTag)
	fmt.Println()

	result, err := tracker.ImportVacations(context.Background(), app.ImportOptions{
		From:     from,
		To:       to,
		DryRun:   outlookSyncDryRun,
		Status:   outlookSyncStatus,
		Timezone: outlookSyncTZ,
		Out:      os.Stdout,
	})

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
	}
	if err != nil {
		return err
	}
	if result.Errors > 0 {
		return fmt.Errorf("%d days could not be imported", result.Errors)
	}
	return nil
}
