package config

import (
	"errors"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefaultOutputDir   = "data"
	DefaultFixturesDir = "testdata/fixtures"
	DefaultRunInterval = "24h"
)

var (
	ErrInvalidOutputDir   = errors.New("invalid output directory")
	ErrInvalidFixturesDir = errors.New("invalid fixtures directory")
	ErrInvalidRunInterval = errors.New("invalid run interval")
)

// Config defines the base-level pipeline configuration
type Config struct {
	// The associated fetch config
	FetchConfig *Fetch `toml:"fetch_config"`

	// The directory where offer and ranking snapshots are written
	OutputDir string `toml:"output_dir"`

	// The directory holding pre-downloaded bank documents,
	// used when UseFixtures is set
	FixturesDir string `toml:"fixtures_dir"`

	// The interval between pipeline runs in watch mode.
	// Format follows Go duration strings ("30m", "24h")
	RunInterval string `toml:"run_interval"`

	// UseFixtures makes parsers read local documents
	// instead of fetching from bank sites
	UseFixtures bool `toml:"use_fixtures"`
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() *Config {
	return &Config{
		FetchConfig: DefaultFetchConfig(),
		OutputDir:   DefaultOutputDir,
		FixturesDir: DefaultFixturesDir,
		RunInterval: DefaultRunInterval,
	}
}

// ValidateConfig validates the pipeline configuration
func ValidateConfig(config *Config) error {
	if config.OutputDir == "" {
		return ErrInvalidOutputDir
	}

	if config.UseFixtures && config.FixturesDir == "" {
		return ErrInvalidFixturesDir
	}

	if _, err := ParseRunInterval(config); err != nil {
		return err
	}

	return ValidateFetchConfig(config.FetchConfig)
}

// ParseRunInterval parses the configured watch-mode run interval
func ParseRunInterval(config *Config) (time.Duration, error) {
	interval, err := time.ParseDuration(config.RunInterval)
	if err != nil || interval <= 0 {
		return 0, ErrInvalidRunInterval
	}

	return interval, nil
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
