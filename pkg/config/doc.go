// Package config loads environment variables into tagged structs using
// github.com/caarlos0/env/v11, with optional dotenv files read by
// github.com/joho/godotenv.
//
// Each configuration type is parsed once per process and memoized:
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	config.MustLoad(&cfg)
//
// LoadEnv reads dotenv files explicitly and drops memoized values so later
// loads see the new environment. ResetCache does the same without reading
// any file, which is mostly useful in tests.
package config
