package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

var (
	// ErrNoExtensions indicates an empty extension list.
	ErrNoExtensions = errors.New("no file extensions configured")

	// ErrInvalidIgnore indicates an ignore pattern that does not compile.
	ErrInvalidIgnore = errors.New("invalid ignore pattern")
)

// Validate checks that the configuration is usable.
func Validate(cfg *Config) error {
	if len(cfg.Scan.Extensions) == 0 {
		return ErrNoExtensions
	}
	for _, ext := range cfg.Scan.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("%w: empty extension", ErrNoExtensions)
		}
	}

	for _, pattern := range cfg.Scan.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidIgnore, pattern, err)
		}
	}

	return nil
}
