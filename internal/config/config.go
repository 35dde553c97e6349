// Package config defines the symseek configuration, loaded from
// .symseek.yaml with environment variable overrides via viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete symseek configuration.
type Config struct {
	Scan  ScanConfig  `yaml:"scan" mapstructure:"scan"`
	Build BuildConfig `yaml:"build" mapstructure:"build"`
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// ScanConfig defines which files are indexed.
type ScanConfig struct {
	Extensions       []string `yaml:"extensions" mapstructure:"extensions"`               // file extensions to index
	Ignore           []string `yaml:"ignore" mapstructure:"ignore"`                       // glob patterns to skip
	RespectGitignore bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"` // also honor the root .gitignore
}

// BuildConfig controls index build failure handling.
type BuildConfig struct {
	// Strict aborts the whole build on the first unreadable or
	// unparseable file instead of skipping it with a warning.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// CacheConfig controls the cross-run symbol cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Location string `yaml:"location" mapstructure:"location"` // override default <root>/.symseek/cache.db
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".rs"},
			Ignore: []string{
				".git/**",
				"target/**",
				".symseek/**",
			},
			RespectGitignore: false,
		},
		Build: BuildConfig{
			Strict: false,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Load merges viper state over the defaults and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CachePath resolves the cache database location for a project root.
func (c *Config) CachePath(root string) string {
	if c.Cache.Location != "" {
		return c.Cache.Location
	}
	return filepath.Join(root, ".symseek", "cache.db")
}
