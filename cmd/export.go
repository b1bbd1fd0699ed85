package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/report"
)

var (
	exportID        string
	exportName      string
	exportOnlyMonth bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the monthly CSV report into the export directory",
	Long: `Write Arbeitszeitbericht_<YYYY_MM>.csv for the current month into the
configured export directory (see "wht config set-export"). An existing
report for the month is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportID, "id", "", "Employee ID (default: last used)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Employee name (default: last used)")
	exportCmd.Flags().BoolVar(&exportOnlyMonth, "only-month", false, "Only include sessions of the current month")
}

func runExport(cmd *cobra.Command, args []string) error {
	emp := employeeFromFlags(exportID, exportName)
	path, err := tracker.Export(context.Background(), emp, report.Options{OnlyMonth: exportOnlyMonth})
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}
