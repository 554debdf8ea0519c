// Package api provides shared helpers for sldcat configuration files.
package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/geocraft/sldcat/pkg/yaml"
)

// GetConfigPath returns the path to a configuration file in the user's
// config directory. It checks $XDG_CONFIG_HOME first, then falls back to
// ~/.config, and finally to a temp directory.
func GetConfigPath(filename string) string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "sldcat", filename)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "sldcat", filename)
	}

	tmpPath := filepath.Join(os.TempDir(), "sldcat", filename)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmpPath),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpPath
}

// ReadFile reads a regular file from disk.
func ReadFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes an object to YAML bytes.
func MarshalYAML(obj any) ([]byte, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// WriteIfNotExists writes data to a path if the file doesn't already exist.
func WriteIfNotExists(path string, data []byte) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.Mode().IsRegular() {
			return nil // File already exists.
		}
		if pathInfo.IsDir() {
			return fmt.Errorf("%s: path is a directory", path)
		}

		return fmt.Errorf("%s: unknown file state", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// WriteDefaultFile writes embedded default content to path. Without force it
// only writes when the file does not exist yet.
func WriteDefaultFile(path string, data []byte, force bool, kind string) error {
	if force {
		err := os.MkdirAll(filepath.Dir(path), 0o700)
		if err != nil {
			return fmt.Errorf("create directories: %w", err)
		}

		err = os.WriteFile(path, data, 0o600)
		if err != nil {
			return fmt.Errorf("write default %s: %w", kind, err)
		}

		return nil
	}

	err := WriteIfNotExists(path, data)
	if err != nil {
		return fmt.Errorf("write default %s: %w", kind, err)
	}

	return nil
}
