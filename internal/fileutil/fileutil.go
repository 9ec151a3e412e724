// Package fileutil provides file utility functions for the fichaje client.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// CacheDir returns $XDG_CACHE_HOME/fichaje, or $HOME/.cache/fichaje, or /tmp/fichaje/cache
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err == nil {
		dir = filepath.Join(dir, "fichaje")
	} else {
		dir = filepath.Join(os.TempDir(), "fichaje", "cache")
	}
	return dir
}

// ConfigDir returns $XDG_CONFIG_HOME/fichaje, or $HOME/.config/fichaje, or the empty string.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fichaje")
}

// WriteFileAtomically writes the contents of r to filePath via a temporary
// file in the same directory that is renamed into place. New files are
// created with mode 0600; the mode of an existing file is preserved.
func WriteFileAtomically(filePath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return fmt.Errorf("fileutil: create directory for %s: %w", filePath, err)
	}
	if err := atomic.WriteFile(filePath, r); err != nil {
		return fmt.Errorf("fileutil: write %s: %w", filePath, err)
	}
	return nil
}
