package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/config"
)

type defaultsConfig struct {
	Name  string   `env:"CFG_TEST_DEFAULT_NAME" envDefault:"books"`
	Limit int      `env:"CFG_TEST_DEFAULT_LIMIT" envDefault:"50"`
	Tags  []string `env:"CFG_TEST_DEFAULT_TAGS" envSeparator:"," envDefault:"a,b"`
}

type memoConfig struct {
	Value string `env:"CFG_TEST_MEMO"`
}

type requiredConfig struct {
	Value string `env:"CFG_TEST_REQUIRED,required"`
}

type fileConfig struct {
	Name  string `env:"CFG_TEST_FILE_NAME"`
	Level string `env:"CFG_TEST_FILE_LEVEL"`
}

type concurrentConfig struct {
	Value string `env:"CFG_TEST_CONCURRENT" envDefault:"same"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, defaultsConfig{Name: "books", Limit: 50, Tags: []string{"a", "b"}}, cfg)
}

func TestLoadIsMemoizedPerType(t *testing.T) {
	t.Setenv("CFG_TEST_MEMO", "first")

	var first memoConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFG_TEST_MEMO", "second")
	var second memoConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third memoConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoadRequired(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })

	t.Setenv("CFG_TEST_REQUIRED", "ok")
	config.ResetCache()
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "ok", cfg.Value)
}

func TestLoadNilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.env")
	override := filepath.Join(dir, "override.env")
	require.NoError(t, os.WriteFile(base, []byte("CFG_TEST_FILE_NAME=base\nCFG_TEST_FILE_LEVEL=info\n"), 0o600))
	require.NoError(t, os.WriteFile(override, []byte("CFG_TEST_FILE_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CFG_TEST_FILE_NAME")
		os.Unsetenv("CFG_TEST_FILE_LEVEL")
	})

	require.NoError(t, config.LoadEnv(base, override))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, fileConfig{Name: "base", Level: "debug"}, cfg)

	assert.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(dir, "missing.env")) })
}

func TestLoadConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var cfg concurrentConfig
			assert.NoError(t, config.Load(&cfg))
			assert.Equal(t, "same", cfg.Value)
		}()
	}
	wg.Wait()
}
