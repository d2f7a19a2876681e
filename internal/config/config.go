package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for dwr, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// Employee is the default employee id used when --employee is not given.
	Employee string        `json:"employee"`
	Storage  StorageConfig `json:"storage"`
	Server   ServerConfig  `json:"server"`
	Log      LogConfig     `json:"log"`
	Outlook  OutlookConfig `json:"outlook"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	// Backend is "json" (one file per employee) or "sqlite".
	Backend string `json:"backend"`
	// Dir holds the per-employee JSON files. Relative paths are resolved
	// against the data directory.
	Dir string `json:"dir"`
	// SQLitePath is the database file for the sqlite backend. Relative paths
	// are resolved against the data directory.
	SQLitePath string `json:"sqlite_path"`
}

// ServerConfig configures `dwr serve`.
type ServerConfig struct {
	ListenAddr string `json:"listen_addr"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level"`
	// Format is console or json.
	Format string `json:"format"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultJob is the job number assigned to imported Outlook events.
	DefaultJob string `json:"default_job"`
	// DefaultProject is the project name assigned to imported Outlook events.
	DefaultProject string `json:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	DefaultBackend    = "json"
	DefaultDir        = "entries"
	DefaultSQLitePath = "dwr.db"
	DefaultListenAddr = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project name used for imported meetings.
	DefaultProject = "Meetings"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:    DefaultBackend,
			Dir:        DefaultDir,
			SQLitePath: DefaultSQLitePath,
		},
		Server: ServerConfig{ListenAddr: DefaultListenAddr},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultProject,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// dwr configuration – <data dir>/config.json
//
// The data directory is ~/.dwr unless DWR_HOME is set.
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise dwr behaviour.
{
  // Default employee id for all commands. Override with --employee.
  "employee": "",

  // ── Record store ─────────────────────────────────────────────────────────
  "storage": {
    // "json"   – one human-readable file per employee in <dir> (default)
    // "sqlite" – a single database file at <sqlite_path>
    "backend": "json",
    "dir": "entries",
    "sqlite_path": "dwr.db"
  },

  // ── HTTP API (dwr serve) ─────────────────────────────────────────────────
  "server": {
    "listen_addr": ":8080"
  },

  // ── Diagnostic logging ───────────────────────────────────────────────────
  "log": {
    // debug, info, warn or error. --verbose forces debug.
    "level": "info",
    // console or json
    "format": "console"
  },

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Job number and project name assigned to imported calendar events.
    // Can be overridden per-sync with --job and --project.
    "default_job": "",
    "default_project": "Meetings",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use UTC. Can be overridden with: dwr outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// FilePath returns the path to config.json inside base.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
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

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. Lines starting with // are treated as comments and stripped before
// JSON parsing. Relative storage paths are resolved against base.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := defaultConfig()
		cfg.resolvePaths(base)
		return cfg, nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	cfg.applyDefaults()
	cfg.resolvePaths(base)
	return cfg, nil
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = d.Storage.Dir
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = d.Storage.SQLitePath
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = d.Server.ListenAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = d.Outlook.TenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = d.Outlook.ClientID
	}
	if c.Outlook.DefaultProject == "" {
		c.Outlook.DefaultProject = d.Outlook.DefaultProject
	}
}

func (c *Config) resolvePaths(base string) {
	if !filepath.IsAbs(c.Storage.Dir) {
		c.Storage.Dir = filepath.Join(base, c.Storage.Dir)
	}
	if !filepath.IsAbs(c.Storage.SQLitePath) {
		c.Storage.SQLitePath = filepath.Join(base, c.Storage.SQLitePath)
	}
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
