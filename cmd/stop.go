package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running work session",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	ws, warn, err := tracker.StopSession(context.Background())
	if err != nil {
		return err
	}
	if warn != nil {
		fmt.Fprintln(os.Stderr, "Warning:", warn)
	}

	fmt.Printf("Stopped work session %s–%s on %s. Worked: %s (%s h)\n",
		ws.Start, ws.End, ws.Date,
		formatElapsed(hoursToSeconds(ws.Hours)), timecalc.FormatHours(ws.Hours))
	return nil
}

// hoursToSeconds converts recorded hours back to whole seconds, rounding to
// the nearest second.
func hoursToSeconds(hours float64) int64 {
	return int64(hours*3600 + 0.5)
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
