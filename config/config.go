// Package config loads library settings from defaults, an optional YAML file
// and environment variables, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the YAML file Load looks for in the working directory.
const DefaultConfigFile = "longops.yaml"

// envPrefix namespaces the environment variables read by Load,
// e.g. LONGOPS_CLIENT_URL maps to client.url.
const envPrefix = "LONGOPS_"

// Load reads configuration with priority: env vars > DefaultConfigFile >
// defaults. The file is optional.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom behaves like Load but reads the given YAML file instead of the
// default one. A missing file is not an error; defaults and env still apply.
func LoadFrom(path string) (*Config, error) {
	k, err := defaults()
	if err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := loadEnv(k); err != nil {
		return nil, err
	}

	return unmarshal(k)
}

// LoadBytes reads configuration from raw YAML bytes layered over the
// defaults. Environment variables still take priority.
func LoadBytes(b []byte) (*Config, error) {
	k, err := defaults()
	if err != nil {
		return nil, err
	}

	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config bytes: %w", err)
	}

	if err := loadEnv(k); err != nil {
		return nil, err
	}

	return unmarshal(k)
}

func defaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	values := map[string]any{
		"client.timeout": "5m",

		"poll.initial_delay": "2s",
		"poll.max_delay":     "10s",

		"log.level":  "info",
		"log.pretty": false,
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return k, nil
}

func loadEnv(k *koanf.Koanf) error {
	err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// LONGOPS_POLL_MAX_DELAY -> poll.max.delay would split the
			// setting name, so only the first underscore becomes a dot.
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.Replace(key, "_", ".", 1), value
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
