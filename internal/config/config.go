// Package config provides configuration and path management.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application name.
	AppName = "countrypick"

	// ConfigDirName is the per-user configuration directory name.
	ConfigDirName = ".countrypick"

	// ConfigFileName is the optional configuration file name.
	ConfigFileName = "config.yaml"

	// CacheDirName is the cache subdirectory name.
	CacheDirName = "cache"

	// StateFileName holds the last selected country code.
	StateFileName = "state.json"

	// RemoteCacheFileName holds the cached remote country list.
	RemoteCacheFileName = "countries.json"

	// EnvPrefix is the prefix for environment overrides (COUNTRYPICK_LIMIT, ...).
	EnvPrefix = "COUNTRYPICK"

	// DefaultDebounce is the input silence required before suggestions are recomputed.
	DefaultDebounce = 400 * time.Millisecond

	// DefaultLimit is the maximum number of suggestions shown.
	DefaultLimit = 5

	// DefaultRemoteCacheTTL is how long a downloaded country list stays fresh.
	DefaultRemoteCacheTTL = 7 * 24 * time.Hour

	// DefaultRemoteURL serves the full country list as JSON.
	DefaultRemoteURL = "https://restcountries.com/v3.1/all?fields=name,cca2"
)

// Dir returns the default configuration directory path.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory
		home = "."
	}
	return filepath.Join(home, ConfigDirName)
}

// ConfigFile returns the config file path inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// CacheDir returns the cache directory inside dir.
func CacheDir(dir string) string {
	return filepath.Join(dir, CacheDirName)
}

// StatePath returns the default state file path inside dir.
func StatePath(dir string) string {
	return filepath.Join(dir, StateFileName)
}

// RemoteCachePath returns the cached remote country list path.
func RemoteCachePath(cacheDir string) string {
	return filepath.Join(cacheDir, RemoteCacheFileName)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
