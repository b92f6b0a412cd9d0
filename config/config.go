// Package config loads the reflection store configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/holmberd/go-reflectionstore/keyfactory"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Store struct {
	// Namespace isolates the store keys. Empty means no namespace.
	Namespace string `yaml:"namespace"`
	// Expiration is the TTL of written entries. Zero disables expiration.
	Expiration time.Duration `yaml:"expiration"`
}

type Log struct {
	Level  string `yaml:"level"`  // zerolog level name, e.g. "info".
	Format string `yaml:"format"` // "console" or "json".
}

type Config struct {
	Redis Redis `yaml:"redis"`
	Store Store `yaml:"store"`
	Log   Log   `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Redis: Redis{Addr: "localhost:6379"},
		Store: Store{Namespace: "reflections"},
		Log:   Log{Level: "info", Format: LogFormatConsole},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr must not be empty"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative, got %d", c.Redis.DB))
	}
	if c.Store.Namespace != "" {
		if err := keyfactory.ValidateKeyFragment(c.Store.Namespace); err != nil {
			errs = append(errs, fmt.Errorf("store.namespace: %w", err))
		}
	}
	if c.Store.Expiration < 0 {
		errs = append(errs, fmt.Errorf("store.expiration must not be negative, got %s", c.Store.Expiration))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}
