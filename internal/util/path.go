package util

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	AppName    = "dealgrid"
	ConfigFile = "config.toml"
	PrefsFile  = "prefs.toml"
)

// ConfigDir returns the dealgrid configuration directory.
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", AppName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), AppName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppName)
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// PrefsPath returns the path to the saved column layouts.
func PrefsPath() string {
	return filepath.Join(ConfigDir(), PrefsFile)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, creating the directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
