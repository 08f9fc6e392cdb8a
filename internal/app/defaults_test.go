package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("TICK_TOCK_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("TICK_TOCK_HOME", "/custom/ticktock")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/ticktock" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/ticktock")
		}
		if defaults["log_dir"] != "/custom/ticktock/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/ticktock/log")
		}
	})

	t.Run("uses XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("TICK_TOCK_HOME", "")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if defaults["base_dir"] != "/xdg/data/ticktock" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/xdg/data/ticktock")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("TICK_TOCK_CONFIG_PATH", "")
		t.Setenv("TICK_TOCK_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "ticktock.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "ticktock")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}
