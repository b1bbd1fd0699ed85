package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/calview"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var calendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar with vacation days highlighted",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default: current month)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := time.Now()
	month := now
	if calendarMonth != "" {
		m, err := timecalc.ParseMonth(calendarMonth, time.Local)
		if err != nil {
			return err
		}
		month = m
	}

	highlights, err := tracker.Highlights(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(calview.RenderMonth(month, highlights, now))
	return nil
}
