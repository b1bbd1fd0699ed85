package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the backup and export directories",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := tracker.Config()
		fmt.Printf("Config file:  %s\n", tracker.ConfigPath())
		fmt.Printf("Ledger:       %s\n", tracker.LedgerPath())
		fmt.Printf("Backup path:  %s\n", orUnset(cfg.BackupPath))
		fmt.Printf("Export path:  %s\n", orUnset(cfg.ExportPath))
		fmt.Printf("Employee:     %s\n", orUnset(formatEmployee(cfg.EmployeeID, cfg.EmployeeName)))
		fmt.Printf("Outlook:      tenant=%s timezone=%s status=%s\n",
			cfg.Outlook.TenantID, orUnset(cfg.Outlook.Timezone), formatStatus(model.VacationStatus(cfg.Outlook.VacationStatus)))
		return nil
	},
}

var configSetBackupCmd = &cobra.Command{
	Use:   "set-backup <dir>",
	Short: "Set the backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := tracker.SetBackupDir(dir); err != nil {
			return err
		}
		fmt.Printf("Backup path set to %s\n", dir)
		return nil
	},
}

var configSetExportCmd = &cobra.Command{
	Use:   "set-export <dir>",
	Short: "Set the export directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := tracker.SetExportDir(dir); err != nil {
			return err
		}
		fmt.Printf("Export path set to %s\n", dir)
		return nil
	},
}

var configSetLocationCmd = &cobra.Command{
	Use:   "set-location <dir>",
	Short: "Use one directory for both backups and exports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := tracker.SetLocation(dir); err != nil {
			return err
		}
		fmt.Printf("Backup and export path set to %s\n", dir)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetBackupCmd)
	configCmd.AddCommand(configSetExportCmd)
	configCmd.AddCommand(configSetLocationCmd)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// formatStatus shows the stored German status with its English name.
func formatStatus(s model.VacationStatus) string {
	if s == model.StatusNone {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", s, s.English())
}

func formatEmployee(id, name string) string {
	switch {
	case id == "" && name == "":
		return ""
	case id == "":
		return name
	case name == "":
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
