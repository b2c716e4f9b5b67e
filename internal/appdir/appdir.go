// Package appdir resolves the per-user directory where picrypt looks for its
// config file and, failing the working directory, its key source.
package appdir

import (
	"os"
	"path/filepath"
	"runtime"
)

// Name is the directory created under the platform config root.
const Name = "picrypt"

// Dir returns the picrypt config directory for the current platform.
func Dir() string {
	return filepath.Join(configRoot(), Name)
}

func configRoot() string {
	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config")
		}
	}

	return os.TempDir()
}

// Resolve returns name unchanged when it is absolute or exists relative to
// the working directory, else the same name inside Dir if a file is there.
// The original name is returned when neither exists so that the caller's
// open reports the path the user asked for.
func Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	candidate := filepath.Join(Dir(), name)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return name
}
