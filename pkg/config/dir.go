package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the dotdir holding config.toml and the default SQLite file.
const dirName = ".promptrelay"

// Dir resolves the configuration directory and ensures it exists. An
// explicit override wins; otherwise a ./.promptrelay next to the working
// directory is preferred over ~/.promptrelay.
func Dir(override string) (string, error) {
	dir, err := pickDir(override)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

func pickDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, dirName)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, dirName), nil
}
