package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/clock"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var clockInterval time.Duration

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Show a live clock with the elapsed time of the running session",
	Long: `Print the current time and, while a session is running, its elapsed time.
The line is refreshed until interrupted with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runClock,
}

func init() {
	clockCmd.Flags().DurationVar(&clockInterval, "interval", time.Second, "Refresh interval")
}

func runClock(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sched := clock.NewScheduler(time.Local)
	tick := func() {
		if ctx.Err() != nil {
			return
		}
		line, err := clockLine(ctx, time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, "\nError:", err)
			stop()
			return
		}
		fmt.Printf("\r%s", line)
	}
	if _, err := sched.Every(clockInterval, tick); err != nil {
		return err
	}

	tick()
	sched.Start()
	<-ctx.Done()
	sched.Stop()
	fmt.Println()
	return nil
}

// clockLine renders the wall-clock time and, if a session runs, its elapsed time.
func clockLine(ctx context.Context, now time.Time) (string, error) {
	st, err := tracker.Status(ctx)
	if err != nil {
		return "", err
	}
	state := "Idle"
	if st.State == session.Running && st.Open != nil {
		state = "Elapsed: " + timecalc.FormatDurationHHMMSS(int64(now.Sub(st.Open.Start).Seconds()))
	}
	return fmt.Sprintf("%s  %-17s", now.Format("2006-01-02 15:04:05"), state), nil
}
