package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-hours-tracker/internal/app"
	"github.com/Tiliavir/work-hours-tracker/internal/config"
	"github.com/Tiliavir/work-hours-tracker/internal/log"
	"github.com/Tiliavir/work-hours-tracker/internal/storage"
)

var (
	homeDir  string
	logLevel string

	// tracker is opened before every command and closed afterwards.
	tracker *app.App
)

var rootCmd = &cobra.Command{
	Use:   "wht",
	Short: "Work-hours tracker – log work sessions, vacation days and monthly reports",
	Long: `wht records work sessions (start/stop), annotates calendar days with notes
and vacation requests, and exports a monthly CSV report.
All data is stored in a SQLite ledger in ~/.wht/ (or $WHT_HOME).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: openTracker,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tracker == nil {
			return nil
		}
		err := tracker.Close()
		tracker = nil
		return err
	},
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	if tracker != nil {
		tracker.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps storage faults to 2 and every other failure to 1.
func exitCode(err error) int {
	if errors.Is(err, storage.ErrStorage) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Data directory (default $WHT_HOME or ~/.wht)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $WHT_LOG_LEVEL or warn)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(outlookCmd)
}

func openTracker(cmd *cobra.Command, args []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	level := logLevel
	if level == "" {
		level = os.Getenv("WHT_LOG_LEVEL")
	}
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)

	home := homeDir
	if home == "" {
		var err error
		if home, err = config.HomeDir(); err != nil {
			return err
		}
	}

	a, err := app.Open(context.Background(), app.Options{Home: home, Logger: logger})
	if err != nil {
		return err
	}
	tracker = a
	return nil
}
