// Package config loads quizreplay settings from defaults, an optional YAML
// file and QUIZREPLAY_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizreplay/internal/weakness"
)

// Config holds application settings.
type Config struct {
	// DBPath overrides the default database location.
	DBPath string `yaml:"db_path"`

	// Seed makes shuffles reproducible. 0 picks a random seed.
	Seed uint64 `yaml:"seed"`

	// HistoryLimit is the number of finished sessions kept in history.
	HistoryLimit int `yaml:"history_limit"`

	// WeaknessKey is the store key of the weakness set.
	WeaknessKey string `yaml:"weakness_key"`

	// Explain enables AI answer explanations when a provider is configured.
	Explain bool `yaml:"explain"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryLimit: 50,
		WeaknessKey:  weakness.DefaultKey,
		Explain:      true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/quizreplay/config.yml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizreplay", "config.yml"), nil
}

// Load builds the effective config. An empty path reads the default config
// file if it exists; an explicit path must exist. Environment variables
// override file values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data, cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over base. Unknown keys and multiple documents are errors.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with QUIZREPLAY_DB, QUIZREPLAY_SEED and
// QUIZREPLAY_HISTORY_LIMIT when set.
func ApplyEnv(cfg *Config) error {
	if p := os.Getenv("QUIZREPLAY_DB"); p != "" {
		cfg.DBPath = p
	}
	if s := os.Getenv("QUIZREPLAY_SEED"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("QUIZREPLAY_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if s := os.Getenv("QUIZREPLAY_HISTORY_LIMIT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("QUIZREPLAY_HISTORY_LIMIT: %w", err)
		}
		cfg.HistoryLimit = n
	}
	return nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be >= 0, got %d", c.HistoryLimit)
	}
	if c.WeaknessKey == "" {
		return fmt.Errorf("weakness_key must not be empty")
	}
	return nil
}
