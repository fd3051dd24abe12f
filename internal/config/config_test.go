package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "TABLE_PREFIX", "HISTORY_CAPACITY", "AUTOSAVE_DEBOUNCE_MS", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("expected environment dev, got %q", cfg.Environment)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("expected prefix dev_, got %q", cfg.TablePrefix)
	}
	if cfg.HistoryCapacity != DefaultHistoryCapacity {
		t.Errorf("expected history capacity %d, got %d", DefaultHistoryCapacity, cfg.HistoryCapacity)
	}
	if cfg.AutosaveDebounce != 1500*time.Millisecond {
		t.Errorf("expected 1.5s debounce, got %v", cfg.AutosaveDebounce)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled by default in dev")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("DEBUG", "")
	t.Setenv("HISTORY_CAPACITY", "10")
	t.Setenv("AUTOSAVE_DEBOUNCE_MS", "not-a-number")

	cfg := Load()

	if cfg.TablePrefix != "prod_" {
		t.Errorf("expected prefix prod_, got %q", cfg.TablePrefix)
	}
	if cfg.Debug {
		t.Error("expected debug disabled in prod")
	}
	if cfg.HistoryCapacity != 10 {
		t.Errorf("expected history capacity 10, got %d", cfg.HistoryCapacity)
	}
	if cfg.AutosaveDebounce != 1500*time.Millisecond {
		t.Errorf("invalid value should fall back to default, got %v", cfg.AutosaveDebounce)
	}
}

func TestSetupLogFile_Rotation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"formctl-2024-01-01T00-00-00.log",
		"formctl-2024-01-02T00-00-00.log",
		"formctl-2024-01-03T00-00-00.log",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "formctl", 2)
	if err != nil {
		t.Fatalf("SetupLogFile failed: %v", err)
	}
	defer f.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "formctl-*.log"))
	if len(files) != 2 {
		t.Fatalf("expected 2 log files after rotation, got %d: %v", len(files), files)
	}
	if _, err := os.Stat(filepath.Join(dir, "formctl-2024-01-01T00-00-00.log")); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"debug on", true, true},
		{"debug off", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&Config{Debug: tt.debug}, &buf)

			logger.Debug("debug line")
			logger.Info("info line")

			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug line logged = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(buf.String(), `"level":"INFO"`) {
				t.Errorf("info line should be logged as JSON, got %q", buf.String())
			}
		})
	}
}
