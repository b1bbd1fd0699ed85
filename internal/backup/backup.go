package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
)

// FileName is the fixed name of the backup artifact.
const FileName = "arbeitszeiten_backup.db"

// Agent copies the ledger file into the configured backup directory.
type Agent struct {
	source string
	dir    func() string
	log    *log.Logger
}

// NewAgent returns an agent copying source into the directory returned by
// dir at call time, so configuration changes apply immediately.
func NewAgent(source string, dir func() string, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.Discard()
	}
	return &Agent{source: source, dir: dir, log: logger}
}

// BackupNow copies the ledger to <dir>/arbeitszeiten_backup.db, overwriting
// the previous copy. It does nothing when no directory is configured or the
// directory does not exist; copied reports whether a copy was made.
func (a *Agent) BackupNow() (path string, copied bool, err error) {
	dir := strings.TrimSpace(a.dir())
	if dir == "" {
		return "", false, nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		a.log.Debug("backup directory unavailable, skipping", "dir", dir)
		return "", false, nil
	}

	path = filepath.Join(dir, FileName)
	if err := copyFile(a.source, path); err != nil {
		return "", false, err
	}
	a.log.Info("ledger backed up", "path", path)
	return path, true, nil
}

// copyFile writes src to a temp file next to dst and renames it into place.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("backup error opening %s: %w", src, err)
	}
	defer in.Close()

	tmpPath := dst + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("backup error creating temp file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("backup error copying: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("backup error closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("backup error renaming temp file: %w", err)
	}
	return nil
}
