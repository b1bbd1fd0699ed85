package backup_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/work-hours-tracker/internal/backup"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "arbeitszeiten.db")
	if err := os.WriteFile(src, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestBackupNowCopiesAndOverwrites(t *testing.T) {
	src := writeSource(t, "first")
	dir := t.TempDir()
	agent := backup.NewAgent(src, func() string { return dir }, nil)

	path, copied, err := agent.BackupNow()
	if err != nil {
		t.Fatalf("BackupNow: %v", err)
	}
	if !copied || path != filepath.Join(dir, backup.FileName) {
		t.Fatalf("BackupNow = %q, %v", path, copied)
	}

	if err := os.WriteFile(src, []byte("second version"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := agent.BackupNow(); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("second version")) {
		t.Errorf("backup content = %q", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestBackupNowSkipsWithoutDirectory(t *testing.T) {
	src := writeSource(t, "data")
	tests := []struct {
		name string
		dir  string
	}{
		{"unset", ""},
		{"missing", filepath.Join(t.TempDir(), "does-not-exist")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := backup.NewAgent(src, func() string { return tt.dir }, nil)
			path, copied, err := agent.BackupNow()
			if err != nil || copied || path != "" {
				t.Errorf("BackupNow = %q, %v, %v; want no copy", path, copied, err)
			}
		})
	}
}

func TestBackupNowFollowsDirectoryChanges(t *testing.T) {
	src := writeSource(t, "data")
	dir := ""
	agent := backup.NewAgent(src, func() string { return dir }, nil)

	if _, copied, _ := agent.BackupNow(); copied {
		t.Fatal("copied without a directory")
	}
	dir = t.TempDir()
	if _, copied, err := agent.BackupNow(); err != nil || !copied {
		t.Fatalf("BackupNow after configuring dir: copied=%v err=%v", copied, err)
	}
}

func TestBackupNowMissingSource(t *testing.T) {
	dir := t.TempDir()
	agent := backup.NewAgent(filepath.Join(dir, "nope.db"), func() string { return dir }, nil)
	if _, _, err := agent.BackupNow(); err == nil {
		t.Fatal("expected error for missing source")
	}
}
