package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
)

var (
	noteVacation bool
	noteStatus   string
)

var noteCmd = &cobra.Command{
	Use:   "note <date> <text>",
	Short: "Attach a note to a day, optionally marking it as vacation",
	Long: `Attach a note to a calendar day (YYYY-MM-DD). An existing note for the
day is replaced. With --vacation the day is a vacation day whose status is
one of beantragt/requested, genehmigt/approved or abgelehnt/rejected.
A blank note is ignored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runNote,
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List all day notes and vacation days",
	Args:  cobra.NoArgs,
	RunE:  runNotes,
}

func init() {
	noteCmd.Flags().BoolVar(&noteVacation, "vacation", false, "Mark the day as a vacation day")
	noteCmd.Flags().StringVar(&noteStatus, "status", "", "Vacation status (default: beantragt)")
}

func runNote(cmd *cobra.Command, args []string) error {
	date := args[0]
	text := strings.Join(args[1:], " ")

	written, warn, err := tracker.Annotate(context.Background(), date, text, noteVacation, noteStatus)
	if err != nil {
		return err
	}
	if warn != nil {
		fmt.Fprintln(os.Stderr, "Warning:", warn)
	}
	if !written {
		fmt.Println("Empty note, nothing saved.")
		return nil
	}
	fmt.Printf("Saved note for %s.\n", date)
	return nil
}

func runNotes(cmd *cobra.Command, args []string) error {
	notes, err := tracker.Notes(context.Background())
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println("No notes found.")
		return nil
	}
	for _, n := range notes {
		fmt.Println(formatNote(n))
	}
	return nil
}

// formatNote renders one line of the notes table.
func formatNote(n model.DayAnnotation) string {
	status := "-"
	if n.Vacation {
		status = string(n.Status)
	}
	return fmt.Sprintf("%-10s  %-9s  %s", n.Date, status, n.Note)
}
