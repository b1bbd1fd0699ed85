package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	st, err := tracker.Status(context.Background())
	if err != nil {
		return err
	}

	if st.State == session.Running && st.Open != nil {
		elapsed := int64(now.Sub(st.Open.Start).Seconds())
		fmt.Println("Running:")
		fmt.Printf("  Employee: %s (%s)\n", st.Open.Employee.Name, st.Open.Employee.ID)
		fmt.Printf("  Since: %s\n", st.Open.Start.Format("2006-01-02 15:04"))
		fmt.Printf("  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
	} else {
		fmt.Println("No running session.")
	}

	fmt.Printf("Today: %s logged (%s h).\n",
		timecalc.FormatDuration(hoursToSeconds(st.TodayHours)), timecalc.FormatHours(st.TodayHours))
	return nil
}
