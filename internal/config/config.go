// Package config handles apps file parsing, location resolution, and
// environment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/adamancini/ffrelease/internal/apps"
)

// appDir is the directory name used under the XDG config home.
const appDir = "ffrelease"

// AppsFile is the parsed user-provided application registry.
type AppsFile struct {
	Version int        `yaml:"version" toml:"version" json:"version"`
	Apps    []apps.App `yaml:"apps" toml:"apps" json:"apps"`
}

// fileNames lists the accepted apps file names in order of precedence.
var fileNames = []string{
	"apps.yaml",
	"apps.yml",
	"apps.toml",
	"apps.json",
}

// FindAppsFile searches for an apps file in the standard locations.
// Returns an empty path without error when no file exists, since the
// built-in registry is usable on its own. An explicit path must exist.
func FindAppsFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified apps file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Check FFRELEASE_APPS environment variable
	if envPath := os.Getenv("FFRELEASE_APPS"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, filepath.Join(xdg.ConfigHome, appDir))
	for _, dir := range xdg.ConfigDirs {
		searchPaths = append(searchPaths, filepath.Join(dir, appDir))
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, "."+appDir))
	}

	for _, dir := range searchPaths {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", nil
}

// Load reads, parses and validates an apps file from the given path.
func Load(path string) (*AppsFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read apps file: %w", err)
	}
	return Parse(path, content)
}

// Parse parses and validates apps file content. path is only used to
// pick the format from its extension; content is sniffed otherwise.
func Parse(path string, content []byte) (*AppsFile, error) {
	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	file, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	if err := Validate(file); err != nil {
		return nil, err
	}

	return file, nil
}

// DefaultAppsFilePath is where init writes a new apps file.
func DefaultAppsFilePath() string {
	return filepath.Join(xdg.ConfigHome, appDir, fileNames[0])
}

// LoadRegistry returns the built-in registry merged with the apps file
// found by FindAppsFile, if any.
func LoadRegistry(explicitPath string) (*apps.Registry, string, error) {
	registry := apps.Builtin()

	path, err := FindAppsFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return registry, "", nil
	}

	file, err := Load(path)
	if err != nil {
		return nil, path, err
	}

	registry, err = registry.Merge(file.Apps...)
	if err != nil {
		return nil, path, err
	}
	return registry, path, nil
}
