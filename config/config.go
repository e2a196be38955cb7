package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/docker/go-units"
	yaml "gopkg.in/yaml.v2"
)

// Defaults applied by CheckAndSetDefaults when the corresponding
// field is unset.
const (
	DefaultListenAddr     = ":8080"
	DefaultSnapshotDir    = "."
	DefaultMaxRequestSize = "4KiB"
	DefaultLogLevel       = "info"
)

/*
Config represents all options the application can use, i.e. after
validation and parsing.
*/
type Config struct {
	// Address the HTTP front-end binds to.
	ListenAddr string `yaml:"listen_addr"`

	// Directory where the snapshot file lives.
	SnapshotDir string `yaml:"snapshot_dir"`

	// Largest accepted request body, in human-readable byte units
	// ("4KiB", "1MB", "512").
	MaxRequestSize string `yaml:"max_request_size"`

	// Log level: "info", "debug", or "warn".
	LogLevel string `yaml:"log_level"`

	maxRequestBytes int64
}

/*
Parse reads a YAML configuration, applies defaults, and validates.
*/
func Parse(r io.Reader) (Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.CheckAndSetDefaults(); err != nil {
		return Config{}, err
	}
	return c, nil
}

/*
Default returns the configuration used when no config file is given.
*/
func Default() Config {
	var c Config
	// Defaults alone always validate.
	_ = c.CheckAndSetDefaults()
	return c
}

/*
CheckAndSetDefaults fills unset fields with defaults and validates
the result in place.
*/
func (c *Config) CheckAndSetDefaults() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.SnapshotDir == "" {
		c.SnapshotDir = DefaultSnapshotDir
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = DefaultMaxRequestSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	switch c.LogLevel {
	case "info", "debug", "warn":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}

	size, err := units.RAMInBytes(c.MaxRequestSize)
	if err != nil {
		return fmt.Errorf("invalid max_request_size %q: %w", c.MaxRequestSize, err)
	}
	if size <= 0 {
		return errors.New("max_request_size must be positive")
	}
	c.maxRequestBytes = size

	return nil
}

/*
MaxRequestBytes reports the parsed request size cap.
*/
func (c Config) MaxRequestBytes() int64 {
	return c.maxRequestBytes
}
