// Package paths resolves the OS-appropriate locations of the shell's
// config, history, and log files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "shellframe"

// AppDataDir returns the application data directory for config files.
// Uses os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func AppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	path := filepath.Join(dir, appDirName)

	// Use restrictive permissions for application data
	_ = os.MkdirAll(path, 0700)

	return path
}

// AppLocalDataDir returns the OS-appropriate local data directory, where
// application-managed data (like the command history database) lives.
//   - macOS: ~/Library/Application Support/shellframe
//   - Linux: $XDG_DATA_HOME/shellframe or ~/.local/share/shellframe
//   - Windows: %LOCALAPPDATA%\shellframe
func AppLocalDataDir() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, "Library", "Application Support")

	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, "AppData", "Local")
		}

	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appDirName)
}

// ConfigFilePath returns the path of the shell configuration file.
func ConfigFilePath() string {
	return filepath.Join(AppDataDir(), "config.yaml")
}

// HistoryDBPath returns the path of the command history database.
func HistoryDBPath() string {
	return filepath.Join(AppLocalDataDir(), "history.db")
}

// LogFilePath returns the path of the shell log file for one program,
// named after the program so side-by-side programs keep separate logs.
func LogFilePath(program string) string {
	return filepath.Join(AppDataDir(), program+".log")
}
