// Package storage persists preferences, the game in progress and results.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "dragboard"

// DataDir returns the platform-specific data directory, creating it.
// - macOS: ~/Library/Application Support/dragboard/
// - Linux: $XDG_DATA_HOME/dragboard/ or ~/.local/share/dragboard/
// - Windows: %APPDATA%/dragboard/
func DataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensure(filepath.Join(baseDir, appName))
}

// DatabaseDir returns the badger directory under root, or under DataDir
// when root is empty.
func DatabaseDir(root string) (string, error) {
	return subdir(root, "db")
}

// SnapshotDir returns where PNG snapshots are written by default.
func SnapshotDir(root string) (string, error) {
	return subdir(root, "snapshots")
}

func subdir(root, name string) (string, error) {
	if root == "" {
		var err error
		if root, err = DataDir(); err != nil {
			return "", err
		}
	}
	return ensure(filepath.Join(root, name))
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
