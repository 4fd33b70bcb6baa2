package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {

	config, err := Load("config.example.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := config.DatabasePath, "./comptabilite.db"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if got, want := config.LogLevel, "info"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestConfigMissingFile(t *testing.T) {
	if _, err := Load("no-such-config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigValidation(t *testing.T) {

	tests := []struct {
		name     string
		yaml     string
		ok       bool
		logLevel string
	}{
		{
			name:     "log level defaults to info",
			yaml:     "database_path: ./x.db\n",
			ok:       true,
			logLevel: "info",
		},
		{
			name:     "explicit log level",
			yaml:     "database_path: ./x.db\nlog_level: debug\n",
			ok:       true,
			logLevel: "debug",
		},
		{
			name: "missing database path",
			yaml: "log_level: info\n",
		},
		{
			name: "bad log level",
			yaml: "database_path: ./x.db\nlog_level: loud\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			if !tt.ok {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.LogLevel != tt.logLevel {
				t.Errorf("log level: got %q want %q", cfg.LogLevel, tt.logLevel)
			}
		})
	}
}
