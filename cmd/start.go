package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
)

var (
	startID   string
	startName string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a work session",
	Long: `Start a work session for the given employee. The employee is remembered
in the config file, so --id and --name can be omitted afterwards.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startID, "id", "", "Employee ID (default: last used)")
	startCmd.Flags().StringVar(&startName, "name", "", "Employee name (default: last used)")
}

// employeeFromFlags fills blank flag values from the remembered employee.
func employeeFromFlags(id, name string) model.Employee {
	emp := tracker.Config().Employee()
	if id != "" {
		emp.ID = id
	}
	if name != "" {
		emp.Name = name
	}
	return emp
}

func runStart(cmd *cobra.Command, args []string) error {
	emp := employeeFromFlags(startID, startName)
	start, err := tracker.StartSession(context.Background(), emp)
	if err != nil {
		return err
	}
	fmt.Printf("Started work session for %s (%s) at %s\n", emp.Name, emp.ID, start.Format(model.TimeLayout))
	return nil
}
