package config

import (
	"os"
	"testing"
)

func TestHistoryLimit_Default(t *testing.T) {
	os.Unsetenv(EnvHistoryLimit)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryLimit() != DefaultHistoryLimit {
		t.Errorf("default HistoryLimit = %d, want %d", cfg.HistoryLimit(), DefaultHistoryLimit)
	}
}

func TestHistoryLimit_FromEnv(t *testing.T) {
	os.Setenv(EnvHistoryLimit, "25")
	defer os.Unsetenv(EnvHistoryLimit)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HistoryLimit() != 25 {
		t.Errorf("HistoryLimit = %d, want 25", cfg.HistoryLimit())
	}
}

func TestHistoryLimit_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "fifty"},
		{"zero", "0"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(EnvHistoryLimit, tt.value)
			defer os.Unsetenv(EnvHistoryLimit)

			if _, err := New(); err == nil {
				t.Errorf("New() with %s = %q succeeded, want error", EnvHistoryLimit, tt.value)
			}
		})
	}
}

func TestSnapThresholdPx_FromEnv(t *testing.T) {
	os.Setenv(EnvSnapThresholdPx, "14.5")
	defer os.Unsetenv(EnvSnapThresholdPx)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapThresholdPx() != 14.5 {
		t.Errorf("SnapThresholdPx = %v, want 14.5", cfg.SnapThresholdPx())
	}
}

func TestSnapThresholdPx_Negative(t *testing.T) {
	os.Setenv(EnvSnapThresholdPx, "-1")
	defer os.Unsetenv(EnvSnapThresholdPx)

	if _, err := New(); err == nil {
		t.Error("New() with negative threshold succeeded, want error")
	}
}

func TestDBPath_UnderDataDir(t *testing.T) {
	os.Setenv(EnvDataDir, "/tmp/framecut-test")
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath() != "/tmp/framecut-test/"+DBFilename {
		t.Errorf("DBPath = %q, want it under the data dir", cfg.DBPath())
	}
}
