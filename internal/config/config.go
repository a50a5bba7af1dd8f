// Package config loads the optional .textools.yaml settings file.
package config

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"textools/internal/processor"
	"textools/internal/texture"
)

// DefaultPath is looked up in the working directory when no --config is given.
const DefaultPath = ".textools.yaml"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Workers   int               `yaml:"workers"`
	LogLevel  string            `yaml:"log_level"`
	Plain     bool              `yaml:"plain"`
	FillColor texture.FillColor `yaml:"fill_color"`
}

func Default() Config {
	return Config{
		Workers:   processor.DefaultWorkers,
		LogLevel:  zerolog.InfoLevel.String(),
		FillColor: texture.Magenta,
	}
}

// Load reads path on top of the defaults. A missing file is not an error and
// yields Default().
func Load(ctx context.Context, path string) (Config, error) {
	cfg, err := LoadFile(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return cfg, err
}

// LoadFile is Load for a file that must exist.
func LoadFile(ctx context.Context, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, errors.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Errorf("%s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("workers", cfg.Workers).Msg("loaded config")
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d: %w", c.Workers, ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if !slices.Contains(texture.FillColors(), c.FillColor) {
		return errors.Errorf("fill_color %d: %w", int(c.FillColor), ErrInvalid)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.NoLevel, errors.Errorf("log_level %q: %w", c.LogLevel, ErrInvalid)
	}
	return level, nil
}
