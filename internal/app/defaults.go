package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TICK_TOCK_CONFIG_PATH: config file location (default: ~/.config/ticktock.toml)
//   - TICK_TOCK_HOME: base directory for ticktock data (default: $XDG_DATA_HOME/ticktock,
//     or ~/.local/share/ticktock)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking TICK_TOCK_CONFIG_PATH first,
// then falling back to the default ~/.config/ticktock.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("TICK_TOCK_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "ticktock.toml"), nil
}

// getBaseDir returns the base directory for ticktock data, checking TICK_TOCK_HOME
// first, then XDG_DATA_HOME, then the XDG default ~/.local/share/ticktock.
func getBaseDir() (string, error) {
	if path := os.Getenv("TICK_TOCK_HOME"); path != "" {
		return path, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ticktock"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "ticktock"), nil
}
