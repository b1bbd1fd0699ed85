package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var (
	sessionsToday bool
	sessionsWeek  bool
	sessionsMonth string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded work sessions with daily totals",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsToday, "today", false, "Show today's sessions")
	sessionsCmd.Flags().BoolVar(&sessionsWeek, "week", false, "Show this week's sessions")
	sessionsCmd.Flags().StringVar(&sessionsMonth, "month", "", "Show the sessions of a month (YYYY-MM)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	now := time.Now()

	var from, to time.Time
	switch {
	case sessionsMonth != "":
		m, err := timecalc.ParseMonth(sessionsMonth, time.Local)
		if err != nil {
			return err
		}
		from, to = m, timecalc.EndOfDay(m.AddDate(0, 1, -1))
	case sessionsWeek:
		from, to = timecalc.WeekRange(now)
	case sessionsToday:
		from, to = timecalc.StartOfDay(now), timecalc.EndOfDay(now)
	}

	sessions, err := tracker.Sessions(context.Background())
	if err != nil {
		return err
	}
	if !from.IsZero() {
		sessions = filterSessions(sessions, from, to)
	}

	printSessions(sessions)
	return nil
}

// filterSessions keeps the sessions whose date lies within [from, to].
func filterSessions(sessions []model.WorkSession, from, to time.Time) []model.WorkSession {
	lo, hi := from.Format(model.DateLayout), to.Format(model.DateLayout)
	var out []model.WorkSession
	for _, s := range sessions {
		if s.Date >= lo && s.Date <= hi {
			out = append(out, s)
		}
	}
	return out
}

// printSessions groups sessions by date and prints a total per day.
func printSessions(sessions []model.WorkSession) {
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return
	}

	var currentDay string
	var dayTotal, grandTotal float64
	flush := func() {
		if currentDay != "" {
			fmt.Printf("  %-20s%s h\n", "Day total", timecalc.FormatHours(dayTotal))
		}
	}
	for _, s := range sessions {
		if s.Date != currentDay {
			flush()
			fmt.Println(s.Date)
			currentDay = s.Date
			dayTotal = 0
		}
		fmt.Printf("  %s–%s  %s h\n", s.Start, s.End, timecalc.FormatHours(s.Hours))
		dayTotal += s.Hours
		grandTotal += s.Hours
	}
	flush()
	fmt.Println("--------------------------------")
	fmt.Printf("%-22s%s h\n", "Total", timecalc.FormatHours(grandTotal))
}
