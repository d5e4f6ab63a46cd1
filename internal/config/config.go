// Package config loads CLI configuration in layers: built-in defaults, an optional
// YAML file, then RECIPEBOOK_* environment variables (highest priority).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "RECIPEBOOK_"
	// ConfigPathEnvVar names the environment variable holding the config file path.
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
	// DefaultConfigFile is read from the working directory when no path is given.
	DefaultConfigFile = "recipebook.yaml"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config is the full CLI configuration.
type Config struct {
	Storage    StorageConfig    `koanf:"storage"`
	Namespaces NamespacesConfig `koanf:"namespaces"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// StorageConfig selects and configures the record store.
type StorageConfig struct {
	Backend string `koanf:"backend" validate:"oneof=file memory badger sqlite http"`
	Path    string `koanf:"path"`
	URL     string `koanf:"url" validate:"omitempty,url"`
	Token   string `koanf:"token"`
	Format  string `koanf:"format" validate:"oneof=json yaml"`
}

// NamespacesConfig names the storage namespaces.
type NamespacesConfig struct {
	Recipes  string `koanf:"recipes" validate:"required"`
	Datasets string `koanf:"datasets" validate:"required"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// MetricsConfig toggles the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data",
			Format:  "json",
		},
		Namespaces: NamespacesConfig{
			Recipes:  "recipes",
			Datasets: "datasets",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path, when non-empty, must name a readable YAML file;
// otherwise RECIPEBOOK_CONFIG and then ./recipebook.yaml are tried.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps RECIPEBOOK_STORAGE_BACKEND to storage.backend. Only the first
// underscore separates section from key. Variables without a section are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || section == "" || rest == "" {
		return ""
	}
	return section + "." + rest
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values and backend-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendBadger:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendHTTP:
		if c.Storage.URL == "" {
			return errors.New("config: storage.url is required for the http backend")
		}
	}
	if c.Namespaces.Recipes == c.Namespaces.Datasets {
		return errors.New("config: namespaces.recipes and namespaces.datasets must differ")
	}
	return nil
}
