package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Tiliavir/work-hours-tracker/internal/report"
	"github.com/Tiliavir/work-hours-tracker/internal/session"
	"github.com/Tiliavir/work-hours-tracker/internal/storage"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrInvalidState, 1},
		{fmt.Errorf("start: %w", session.ErrValidation), 1},
		{report.ErrMissingConfig, 1},
		{&storage.Error{Op: "insert session", Err: errors.New("disk full")}, 2},
		{fmt.Errorf("stop: %w", &storage.Error{Op: "close session", Err: errors.New("locked")}), 2},
		{errors.New("anything else"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := []string{
		"start", "stop", "status", "note", "notes", "sessions",
		"calendar", "export", "backup", "config", "clock", "outlook",
	}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}

	for _, path := range [][]string{
		{"config", "show"}, {"config", "set-backup"}, {"config", "set-export"},
		{"config", "set-location"}, {"outlook", "sync"},
	} {
		c, _, err := rootCmd.Find(path)
		if err != nil || c.Name() != path[1] {
			t.Errorf("Find(%v) = %v, %v", path, c, err)
		}
	}
}
