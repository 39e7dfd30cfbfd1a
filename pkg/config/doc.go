// Package config loads SDK configuration structs from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` to
// deliver a small API that:
//
//   - Loads values from one or multiple `.env` files (falling back to the
//     default `.env` in the current working directory).
//   - Parses the environment into any Go struct using `env` field tags.
//   - Exposes a helper that panics on failure (MustLoad) for scenarios where
//     configuration is critical at startup.
//
// # Usage
//
//	type Config struct {
//	    BaseURL      string `env:"NOTIFY_BASE_URL,required"`
//	    ProfileToken string `env:"NOTIFY_PROFILE_TOKEN"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
package config
