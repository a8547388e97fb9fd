// Package config handles the XDG configuration directory, config.yaml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename inside the config dir.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendGoogle = "google"
)

// Environment variables that override config.yaml.
const (
	EnvBackend    = "TODO_BACKEND"
	EnvFile       = "TODO_FILE"
	EnvGoogleList = "TODO_GOOGLE_LIST"
)

// ErrInvalid marks errors caused by settings or credentials rather than storage.
var ErrInvalid = errors.New("invalid configuration")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Backend selects the task store: csv, sqlite or google.
	Backend string `yaml:"backend"`

	// File is the data file for the csv and sqlite backends.
	// Empty means a default file inside Dir.
	File string `yaml:"file"`

	// GoogleList is the Google Tasks list id for the google backend.
	GoogleList string `yaml:"google_list"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Backend: BackendCSV}, nil
}

// Load creates a Config for configDir, then applies config.yaml (if present)
// and the environment, in that order.
// Call Validate after applying any further overrides.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Validate checks that the settings name a known backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCSV, BackendSQLite, BackendGoogle:
		return nil
	default:
		return fmt.Errorf("%w: unknown backend: %s (want csv, sqlite or google)", ErrInvalid, c.Backend)
	}
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataPath returns the data file for file-based backends.
func (c *Config) DataPath() string {
	if c.File != "" {
		return c.File
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(c.Dir, "tasks.db")
	}
	return filepath.Join(c.Dir, "tasks.csv")
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", c.ConfigPath(), err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalid, c.ConfigPath(), err)
	}
	c.Backend = normalizeBackend(c.Backend)
	c.File = c.resolvePath(c.File)
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = normalizeBackend(v)
	}
	if v := os.Getenv(EnvFile); v != "" {
		c.File = v
	}
	if v := os.Getenv(EnvGoogleList); v != "" {
		c.GoogleList = v
	}
}

// SetBackend overrides the backend by name.
func (c *Config) SetBackend(name string) {
	c.Backend = normalizeBackend(name)
}

// resolvePath makes a relative path in config.yaml relative to Dir.
func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func normalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendCSV
	}
	return name
}
