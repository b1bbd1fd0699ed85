package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
)

// EnvHome overrides the data directory (default ~/.wht).
const EnvHome = "WHT_HOME"

// FileName is the config file inside the data directory.
const FileName = "config.json"

// Config is the root configuration for wht, stored in <home>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// BackupPath is the directory receiving the ledger backup. Empty = unset.
	BackupPath string `json:"backup_path"`
	// ExportPath is the directory receiving monthly reports. Empty = unset.
	ExportPath string `json:"export_path"`
	// EmployeeID and EmployeeName are remembered from the last start.
	EmployeeID   string        `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	Outlook      OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
	// VacationStatus is the status given to imported out-of-office days.
	VacationStatus string `json:"vacation_status"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultVacationStatus is used for imported out-of-office days.
	DefaultVacationStatus = "beantragt"
)

// Employee returns the remembered employee identity.
func (c Config) Employee() model.Employee {
	return model.Employee{ID: c.EmployeeID, Name: c.EmployeeName}
}

// defaultConfig returns a Config pre-filled with sensible defaults. Both
// directories start unset.
func defaultConfig() Config {
	return Config{
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			VacationStatus: DefaultVacationStatus,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// wht configuration
//
// Directories may also be set with: wht config set-backup|set-export|set-location <dir>
{
  // Directory receiving arbeitszeiten_backup.db after every change. Empty = no backup.
  "backup_path": "",

  // Directory receiving Arbeitszeitbericht_<YYYY_MM>.csv. Empty = export disabled.
  "export_path": "",

  // Remembered from the last "wht start --id --name".
  "employee_id": "",
  "employee_name": "",

  // ── Microsoft Graph / Outlook vacation import ───────────────────────────
  "outlook": {
    // Azure AD tenant ID. "common" works for personal accounts and most organisations.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    "timezone": "",

    // Status for imported out-of-office days: beantragt, genehmigt or abgelehnt.
    "vacation_status": "beantragt"
  }
}
`

// HomeDir returns the data directory: $WHT_HOME, or ~/.wht.
func HomeDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvHome)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wht"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Store owns the config file. Every setter rewrites the file in full.
type Store struct {
	path string
	cfg  Config
}

// Load reads <dir>/config.json, creating it with annotated defaults on first
// run. A missing file yields the defaults.
func Load(dir string) (*Store, error) {
	path := filepath.Join(dir, FileName)
	s := &Store{path: path, cfg: defaultConfig()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return s, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.VacationStatus == "" {
		cfg.Outlook.VacationStatus = DefaultVacationStatus
	}
	s.cfg = cfg
	return s, nil
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// SetBackupPath sets and persists the backup directory.
func (s *Store) SetBackupPath(dir string) error {
	s.cfg.BackupPath = strings.TrimSpace(dir)
	return s.save()
}

// SetExportPath sets and persists the export directory.
func (s *Store) SetExportPath(dir string) error {
	s.cfg.ExportPath = strings.TrimSpace(dir)
	return s.save()
}

// SetEmployee remembers the employee identity.
func (s *Store) SetEmployee(e model.Employee) error {
	if s.cfg.EmployeeID == e.ID && s.cfg.EmployeeName == e.Name {
		return nil
	}
	s.cfg.EmployeeID = e.ID
	s.cfg.EmployeeName = e.Name
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	data = append([]byte("// wht configuration\n"), data...)
	data = append(data, '\n')

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving config file: %w", err)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
