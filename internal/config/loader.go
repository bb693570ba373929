package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitereap"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads per-site settings from a YAML file at path.
// A missing file yields ErrConfigNotFound; only callers that received the
// path explicitly should treat that as fatal.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile locates the configuration file. An explicit configPath wins
// when it exists; otherwise .sitereap is looked up in the working directory
// and then in the home directory. An empty return means no file was found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		if candidate := filepath.Join(cwd, DefaultConfigFile); fileExists(candidate) {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if candidate := filepath.Join(home, DefaultConfigFile); fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
