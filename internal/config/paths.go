package config

import (
	"os"
	"path/filepath"
)

// GetHomePath returns the ponte home directory ($PONTE_HOME or ~/.ponte)
func GetHomePath() string {
	if home := os.Getenv("PONTE_HOME"); home != "" {
		return ExpandPath(home)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ponte" // Fallback to relative path
	}
	return filepath.Join(homeDir, ".ponte")
}

// GetSettingsPath returns the path to settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHomePath(), "settings.json")
}

// GetHistoryPath returns the path to the saved-session history file
func GetHistoryPath() string {
	return filepath.Join(GetHomePath(), "sessions.json")
}

// GetDBPath returns the path to the query archive database
func GetDBPath() string {
	return filepath.Join(GetHomePath(), "ponte.db")
}

// GetAskDir returns the directory scanned for ask-bridge request files.
// A shared temp location so the agent's tooling can write there without
// knowing the ponte home directory.
func GetAskDir() string {
	return os.TempDir()
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
