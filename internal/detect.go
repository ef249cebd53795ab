package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// DetectBuddyDir walks up from start to the first directory holding buddy.toml
func DetectBuddyDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &ConfigError{
				Key: ConfigFileName,
				Err: fmt.Errorf("no %s found in %s or any parent directory: %w", ConfigFileName, start, ErrNotFound),
			}
		}
		dir = parent
	}
}
