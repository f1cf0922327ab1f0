// Package config provides configuration management for framecut.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultLogLevel        = "info"
	DefaultDataDir         = ".framecut"
	DefaultHistoryLimit    = 50
	DefaultSnapThresholdPx = 10.0
	DefaultFPS             = 30.0

	// Environment variable names
	EnvLogLevel        = "FRAMECUT_LOG_LEVEL"
	EnvDataDir         = "FRAMECUT_DATA_DIR"
	EnvHistoryLimit    = "FRAMECUT_HISTORY_LIMIT"
	EnvSnapThresholdPx = "FRAMECUT_SNAP_THRESHOLD_PX"

	// Database filename
	DBFilename = "framecut.db"
)

// Config defines the application configuration interface
type Config interface {
	LogLevel() string
	DataDir() string
	DBPath() string
	HistoryLimit() int
	SnapThresholdPx() float64
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	logLevel        string
	dataDir         string
	historyLimit    int
	snapThresholdPx float64
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		historyLimit:    DefaultHistoryLimit,
		snapThresholdPx: DefaultSnapThresholdPx,
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if hl := os.Getenv(EnvHistoryLimit); hl != "" {
		limit, err := strconv.Atoi(hl)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHistoryLimit, err)
		}
		if limit < 1 {
			return nil, fmt.Errorf("invalid %s: must be at least 1", EnvHistoryLimit)
		}
		cfg.historyLimit = limit
	}

	if st := os.Getenv(EnvSnapThresholdPx); st != "" {
		threshold, err := strconv.ParseFloat(st, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSnapThresholdPx, err)
		}
		if threshold < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", EnvSnapThresholdPx)
		}
		cfg.snapThresholdPx = threshold
	}

	return cfg, nil
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// HistoryLimit returns the undo history depth
func (c *EnvConfig) HistoryLimit() int {
	return c.historyLimit
}

// SnapThresholdPx returns the snapping threshold in pixels
func (c *EnvConfig) SnapThresholdPx() float64 {
	return c.snapThresholdPx
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}
