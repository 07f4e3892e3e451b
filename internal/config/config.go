// Package config loads the wsframe command configuration from YAML or
// TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the wsframe subcommands.
type Config struct {
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// MaxPayloadLength limits the payload of decoded frames.
	// Zero disables the limit.
	MaxPayloadLength uint64 `yaml:"max_payload_length" toml:"max_payload_length"`
	// ChunkSize splits decode input into deliveries of at most that
	// many bytes. Zero delivers the input at once.
	ChunkSize int `yaml:"chunk_size" toml:"chunk_size"`
	// Listen is the TCP address of the echo server.
	Listen string `yaml:"listen" toml:"listen"`
	// RateLimit is the number of frames per second each echo
	// connection may send. Zero disables the limit.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
	// Burst is the rate limiter burst.
	Burst int `yaml:"burst" toml:"burst"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:         "info",
		MaxPayloadLength: 16 << 20,
		Listen:           "127.0.0.1:9080",
		Burst:            1,
	}
}

// Load reads the file at path over Default. The format is chosen by
// the extension: .yaml, .yml or .toml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	case ".toml":
		err = loadTOML(path, &cfg)
	default:
		err = fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	err = d.Decode(cfg)
	if errors.Is(err, io.EOF) {
		// Empty file.
		return nil
	}
	return err
}

type tomlConfig struct {
	LogLevel         string  `toml:"log_level"`
	MaxPayloadLength int64   `toml:"max_payload_length"`
	ChunkSize        int     `toml:"chunk_size"`
	Listen           string  `toml:"listen"`
	RateLimit        float64 `toml:"rate_limit"`
	Burst            int     `toml:"burst"`
}

func loadTOML(path string, cfg *Config) error {
	var raw tomlConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys %v", undecoded)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("max_payload_length") {
		if raw.MaxPayloadLength < 0 {
			return fmt.Errorf("max_payload_length must not be negative: %v", raw.MaxPayloadLength)
		}
		cfg.MaxPayloadLength = uint64(raw.MaxPayloadLength)
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("rate_limit") {
		cfg.RateLimit = raw.RateLimit
	}
	if meta.IsDefined("burst") {
		cfg.Burst = raw.Burst
	}
	return nil
}

// Validate reports the first invalid setting of c.
func (c Config) Validate() error {
	_, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative: %v", c.ChunkSize)
	}
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative: %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 with a rate_limit: %v", c.Burst)
	}
	return nil
}
