package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the ledger into the backup directory now",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	path, copied, err := tracker.Backup()
	if err != nil {
		return err
	}
	if !copied {
		fmt.Println("No backup directory configured or it does not exist; nothing copied.")
		return nil
	}
	fmt.Printf("Backup written to %s\n", path)
	return nil
}
