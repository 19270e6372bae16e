package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// baseDataDir is the per-user directory applications keep data in:
// Application Support on macOS, %AppData% on Windows and the XDG data
// directory elsewhere.
func baseDataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows", "ios":
		return os.UserConfigDir()
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// DataDir returns the chesscore data directory, creating it if needed.
// CHESSCORE_HOME overrides the platform default.
func DataDir() (string, error) {
	dir := os.Getenv("CHESSCORE_HOME")
	if dir == "" {
		base, err := baseDataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	return dir, os.MkdirAll(dir, 0755)
}

// DatabaseDir returns the directory holding the badger database.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "db")
	return dbDir, os.MkdirAll(dbDir, 0755)
}
