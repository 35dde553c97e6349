package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, []string{".rs"}, cfg.Scan.Extensions)
	assert.Contains(t, cfg.Scan.Ignore, "target/**")
	assert.False(t, cfg.Scan.RespectGitignore)
	assert.False(t, cfg.Build.Strict)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `scan:
  extensions:
    - .rs
    - .rlib
  respect_gitignore: true
build:
  strict: true
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".symseek.yaml"), []byte(content), 0o644))

	v := viper.New()
	v.SetConfigName(".symseek")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{".rs", ".rlib"}, cfg.Scan.Extensions)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.True(t, cfg.Build.Strict)
	assert.False(t, cfg.Cache.Enabled)
	// Ignore patterns were not overridden and keep their defaults.
	assert.Contains(t, cfg.Scan.Ignore, ".git/**")
}

func TestLoad_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("scan.ignore", []string{"[unterminated"})

	_, err := Load(v)
	require.ErrorIs(t, err, ErrInvalidIgnore)
}

func TestValidate_NoExtensions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Scan.Extensions = nil
	require.ErrorIs(t, Validate(cfg), ErrNoExtensions)

	cfg.Scan.Extensions = []string{"."}
	require.ErrorIs(t, Validate(cfg), ErrNoExtensions)
}

func TestCachePath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, filepath.Join("/proj", ".symseek", "cache.db"), cfg.CachePath("/proj"))

	cfg.Cache.Location = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.CachePath("/proj"))
}
