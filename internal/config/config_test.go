// ABOUTME: Tests for trainlog configuration management.
// ABOUTME: Covers load, save, defaults, derived paths, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := &Config{}
	assert.Equal(t, "/tmp/xdg-data/trainlog", cfg.GetDataDir())
	assert.Equal(t, "/tmp/xdg-data/trainlog/trainlog.db", cfg.DBPath())
	assert.Equal(t, "/tmp/xdg-data/trainlog/media", cfg.MediaDir())
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/trainlog-test"}
	assert.Equal(t, "/tmp/trainlog-test", cfg.GetDataDir())
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/trainlog-data"}
	assert.Equal(t, filepath.Join(home, "trainlog-data"), cfg.GetDataDir())
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := map[string]string{
		"":               "",
		"/tmp/foo":       "/tmp/foo",
		"~":              home,
		"~/data/train":   filepath.Join(home, "data/train"),
		"data/trainlog":  "data/trainlog",
		"~other/nothome": "~other/nothome",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExpandPath(in), "ExpandPath(%q)", in)
	}
}

func TestUndoWindow(t *testing.T) {
	assert.Equal(t, 5*time.Second, (&Config{}).UndoWindow())
	assert.Equal(t, 5*time.Second, (&Config{UndoWindowSeconds: -3}).UndoWindow())
	assert.Equal(t, 12*time.Second, (&Config{UndoWindowSeconds: 12}).UndoWindow())
}

func TestLoggerParams(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{LogLevel: "debug", LogFile: "~/logs/trainlog", LogJSON: true}
	p := cfg.LoggerParams()
	assert.Equal(t, "debug", p.LogLevel)
	assert.Equal(t, filepath.Join(home, "logs/trainlog"), p.LogFileName)
	assert.True(t, p.LogFormatJSON)
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err, "Load() with no config file should not error")
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.DataDir)
	assert.Empty(t, cfg.LogLevel)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		DataDir:           "/tmp/trainlog-data",
		LogLevel:          "info",
		UndoWindowSeconds: 10,
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{LogLevel: "warn"}
	require.NoError(t, cfg.Save(), "Save() should create directory")

	assert.DirExists(t, filepath.Join(tmpDir, "nonexistent", "trainlog"))
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "trainlog")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600))

	_, err := Load()
	assert.Error(t, err, "Expected error for invalid JSON config")
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_dir":"/srv/train","log_json":true}`), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/train", cfg.DataDir)
	assert.True(t, cfg.LogJSON)
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	assert.Equal(t, filepath.Join(tmpDir, "trainlog", "config.json"), GetConfigPath())
}

func TestOpenStorage(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	repo, err := cfg.OpenStorage("")
	require.NoError(t, err)
	defer repo.Close()

	assert.FileExists(t, filepath.Join(tmpDir, "trainlog.db"))
}

func TestOpenStorageOverridePath(t *testing.T) {
	override := filepath.Join(t.TempDir(), "nested", "other.db")
	cfg := &Config{DataDir: t.TempDir()}

	repo, err := cfg.OpenStorage(override)
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, override, repo.Path())
	assert.FileExists(t, override)
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	require.NoError(t, err)

	// Empty config should result in "{}" since fields have omitempty
	assert.Equal(t, "{}", string(data))
}
