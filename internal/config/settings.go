package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SourceKind selects where the country list comes from.
type SourceKind string

const (
	SourceEmbedded SourceKind = "embedded"
	SourceFile     SourceKind = "file"
	SourceRemote   SourceKind = "remote"
)

// UnmarshalText validates the kind when decoded from flags, env or file.
func (k *SourceKind) UnmarshalText(text []byte) error {
	kind, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseSourceKind parses a source kind. Empty means embedded.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case "", SourceEmbedded:
		return SourceEmbedded, nil
	case SourceFile:
		return SourceFile, nil
	case SourceRemote:
		return SourceRemote, nil
	default:
		return "", fmt.Errorf("invalid source: %q (must be embedded, file, or remote)", s)
	}
}

// Settings holds runtime configuration.
type Settings struct {
	Debug         bool          `mapstructure:"debug"`
	Output        string        `mapstructure:"output"`
	Source        SourceKind    `mapstructure:"source"`
	CountriesFile string        `mapstructure:"countries_file"`
	CountriesURL  string        `mapstructure:"countries_url"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	StateFile     string        `mapstructure:"state_file"`
	Limit         int           `mapstructure:"limit"`
	Debounce      time.Duration `mapstructure:"debounce"`
	Offline       bool          `mapstructure:"offline"`
	ConfigDir     string        `mapstructure:"-"`
}

// Validate checks values that cannot be fixed by clamping.
func (s *Settings) Validate() error {
	switch s.Output {
	case "text", "json", "yaml", "table":
	default:
		return fmt.Errorf("invalid output format: %q (must be text, json, yaml, or table)", s.Output)
	}
	if s.Source == SourceFile && s.CountriesFile == "" {
		return errors.New("source \"file\" requires --countries-file")
	}
	if s.Limit < 1 {
		s.Limit = DefaultLimit
	}
	if s.Debounce < 0 {
		s.Debounce = 0
	}
	return nil
}

// CacheDir returns the cache directory used for remote lists.
func (s *Settings) CacheDir() string {
	return CacheDir(s.ConfigDir)
}

func defaults(dir string) map[string]any {
	return map[string]any{
		"debug":          false,
		"output":         "text",
		"source":         string(SourceEmbedded),
		"countries_file": "",
		"countries_url":  DefaultRemoteURL,
		"cache_ttl":      DefaultRemoteCacheTTL,
		"state_file":     StatePath(dir),
		"limit":          DefaultLimit,
		"debounce":       DefaultDebounce,
		"offline":        false,
	}
}

// Setup prepares v with defaults, environment overrides and, when present,
// the config file. A missing config file is not an error.
func Setup(v *viper.Viper, configFile string) error {
	dir := filepath.Dir(configFile)
	for key, value := range defaults(dir) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil &&
		!errors.As(err, &viper.ConfigFileNotFoundError{}) &&
		!errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", configFile, err)
	}
	return nil
}

// BindFlags binds command line flags to their config keys. Flag names use
// dashes, keys use underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		ConfigDir: filepath.Dir(v.ConfigFileUsed()),
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(s, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
