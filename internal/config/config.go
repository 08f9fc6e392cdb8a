package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultAutoSaveInterval = 300 * time.Second
	defaultMaxBackups       = 10
	lockedDataFile          = "tick_tock_projects_prototype.json"
)

// defaultDataFiles are the data file names per environment, relative to
// the base directory.
var defaultDataFiles = map[Environment]string{
	Development: "tick_tock_projects_dev.json",
	Production:  "tick_tock_projects.json",
	Test:        "tick_tock_projects_test.json",
	Prototype:   "tick_tock_projects_prototype.json",
}

// Config represents the main configuration for ticktock.
//
// When Locked is set the configuration follows a fixed policy: the
// environment is pinned to prototype, backups are on, the autosave interval
// and retention use their defaults, debug output is off and the data and
// backup paths live under BaseDir. Stored values are kept but ignored.
type Config struct {
	Env             Environment       `toml:"environment"`
	BaseDir         string            `toml:"base_dir"`
	LogDir          string            `toml:"log_dir"`
	Locked          bool              `toml:"locked"`
	DebugMode       bool              `toml:"debug_mode"`
	AutoSaveSeconds int               `toml:"auto_save_interval"`
	DataFiles       map[string]string `toml:"data_files,omitempty"`
	Backup          BackupConfig      `toml:"backup"`
	Journal         JournalConfig     `toml:"journal"`

	// dataFileOverride replaces the active environment's data file for
	// this process only. It is never written back.
	dataFileOverride string
}

// BackupConfig represents configuration for data file backups.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type BackupConfig struct {
	Enabled    *bool  `toml:"enabled,omitempty"`     // defaults to true
	Type       string `toml:"type"`                  // "filesystem" (default), "memory", or "s3"
	MaxBackups *int   `toml:"max_backups,omitempty"` // defaults to 10; below 1 keeps every backup

	// FileSystem-specific fields (only used when Type == "filesystem")
	Directory string `toml:"directory,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// JournalConfig represents configuration for the session journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config with the provided base directory and
// default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		Env:             Prototype,
		BaseDir:         baseDir,
		LogDir:          filepath.Join(baseDir, "log"),
		AutoSaveSeconds: int(defaultAutoSaveInterval / time.Second),
		Backup: BackupConfig{
			Type:      "filesystem",
			Directory: filepath.Join(baseDir, "backups"),
		},
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Environment returns the active environment.
func (c *Config) Environment() Environment {
	if c.Locked || c.Env == "" {
		return Prototype
	}
	return c.Env
}

// SetEnvironment changes the active environment.
func (c *Config) SetEnvironment(env Environment) error {
	if c.Locked {
		return fmt.Errorf("cannot switch to %s: %w", env, ErrLocked)
	}
	if _, err := ParseEnvironment(string(env)); err != nil {
		return err
	}
	c.Env = env
	return nil
}

// DataFile returns the data file path of an environment. Relative paths
// resolve against BaseDir.
func (c *Config) DataFile(env Environment) string {
	if c.Locked {
		return filepath.Join(c.BaseDir, lockedDataFile)
	}
	if c.dataFileOverride != "" && env == c.Environment() {
		return c.resolve(c.dataFileOverride)
	}
	path, ok := c.DataFiles[string(env)]
	if !ok || path == "" {
		path = defaultDataFiles[env]
	}
	return c.resolve(path)
}

// AutoSaveInterval is the minimum time between unforced saves.
func (c *Config) AutoSaveInterval() time.Duration {
	if c.Locked || c.AutoSaveSeconds <= 0 {
		return defaultAutoSaveInterval
	}
	return time.Duration(c.AutoSaveSeconds) * time.Second
}

// BackupEnabled reports whether saves back up the previous data file.
func (c *Config) BackupEnabled() bool {
	if c.Locked || c.Backup.Enabled == nil {
		return true
	}
	return *c.Backup.Enabled
}

// MaxBackups is the number of backups kept per data file.
func (c *Config) MaxBackups() int {
	if c.Locked || c.Backup.MaxBackups == nil {
		return defaultMaxBackups
	}
	return *c.Backup.MaxBackups
}

// BackupDirectory is where the filesystem vault keeps backups.
func (c *Config) BackupDirectory() string {
	if c.Locked || c.Backup.Directory == "" {
		return filepath.Join(c.BaseDir, "backups")
	}
	return c.resolve(c.Backup.Directory)
}

// IsDebug reports whether debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.DebugMode && !c.Locked
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// ApplyEnv applies environment variable overrides read through lookup:
//   - TICK_TOCK_ENV: active environment
//   - TICK_TOCK_DEBUG: "true", "1" or "yes" enables debug output
//   - TICK_TOCK_DATA_FILE: data file for the active environment, not persisted
//   - TICK_TOCK_AUTO_SAVE: autosave interval in seconds
//
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TICK_TOCK_ENV"); ok && v != "" {
		env, err := ParseEnvironment(v)
		if err != nil {
			return fmt.Errorf("TICK_TOCK_ENV: %w", err)
		}
		c.Env = env
	}
	if v, ok := lookup("TICK_TOCK_DEBUG"); ok && v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			c.DebugMode = true
		default:
			c.DebugMode = false
		}
	}
	if v, ok := lookup("TICK_TOCK_AUTO_SAVE"); ok && v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICK_TOCK_AUTO_SAVE: invalid interval %q", v)
		}
		c.AutoSaveSeconds = seconds
	}
	if v, ok := lookup("TICK_TOCK_DATA_FILE"); ok && v != "" {
		c.dataFileOverride = v
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Env != "" {
		env, err := ParseEnvironment(string(cfg.Env))
		if err != nil {
			return nil, err
		}
		cfg.Env = env
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// Save overwrites the config file at path.
func Save(path string, cfg *Config) error {
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
