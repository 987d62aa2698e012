// ABOUTME: Trainlog configuration management.
// ABOUTME: Handles data location, logging, the undo window and opening storage.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/trainlog/internal/logging"
	"github.com/harperreed/trainlog/internal/storage"
	"github.com/harperreed/trainlog/internal/undo"
)

// Config stores trainlog configuration.
type Config struct {
	// DataDir is the root directory for data storage. trainlog.db and the
	// media/ folder live here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/trainlog.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of trace, debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	// LogFile, when set, sends logs to a rotating file instead of stderr.
	LogFile string `json:"log_file,omitempty"`

	// LogJSON switches the log format from text to JSON.
	LogJSON bool `json:"log_json,omitempty"`

	// UndoWindowSeconds is how long a deleted set can be restored.
	UndoWindowSeconds int `json:"undo_window_seconds,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the database file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), storage.DBFileName)
}

// MediaDir returns the directory attachments are copied into.
func (c *Config) MediaDir() string {
	return filepath.Join(c.GetDataDir(), "media")
}

// UndoWindow returns the undo window, defaulting to undo.DefaultWindow.
func (c *Config) UndoWindow() time.Duration {
	if c.UndoWindowSeconds <= 0 {
		return undo.DefaultWindow
	}
	return time.Duration(c.UndoWindowSeconds) * time.Second
}

// LoggerParams converts the logging fields for logging.Setup.
func (c *Config) LoggerParams() logging.LoggerSetupParams {
	return logging.LoggerSetupParams{
		LogFileName:   ExpandPath(c.LogFile),
		LogLevel:      c.LogLevel,
		LogFormatJSON: c.LogJSON,
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store at dbPath, or at DBPath when dbPath is empty.
func (c *Config) OpenStorage(dbPath string) (*storage.DB, error) {
	if dbPath == "" {
		dbPath = c.DBPath()
	}
	db, err := storage.Open(ExpandPath(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trainlog", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
