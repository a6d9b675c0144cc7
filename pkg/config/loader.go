package config

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/rulekit/internal/typecache"
)

type loaded struct {
	value any
	err   error
}

var (
	cache          atomic.Pointer[typecache.Cache[loaded]]
	loadDefaultEnv sync.Once
)

func init() {
	cache.Store(typecache.New[loaded]())
}

// Load parses environment variables into v according to its env tags. Each
// type is parsed once; later calls copy the memoized result, including a
// parse failure. A .env file in the working directory is read on first use
// when present.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDefaultEnv.Do(func() {
		_ = godotenv.Load()
	})

	res := cache.Load().GetOrBuild(typecache.TypeOf[T](), func() loaded {
		var fresh T
		if err := env.Parse(&fresh); err != nil {
			return loaded{err: errors.Join(ErrParsingConfig, err)}
		}
		return loaded{value: fresh}
	})
	if res.err != nil {
		return res.err
	}
	*v = res.value.(T)
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given dotenv files, later files overriding earlier
// ones and all of them overriding the process environment. With no paths
// it reads .env. Memoized configurations are dropped.
func LoadEnv(paths ...string) error {
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	ResetCache()
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// ResetCache forgets every memoized configuration.
func ResetCache() {
	cache.Store(typecache.New[loaded]())
}
