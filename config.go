package notifykit

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

// ErrInvalidConfig wraps all configuration validation failures.
var ErrInvalidConfig = errors.New("notifykit: invalid configuration")

// Config is the immutable SDK configuration captured at construction.
type Config struct {
	// BaseURL is the endpoint root of the notification API.
	BaseURL string `env:"NOTIFYKIT_BASE_URL"`
	// AppToken is the send credential.
	AppToken string `env:"NOTIFYKIT_APP_TOKEN"`
	// ProfileToken is the receive credential used by the stream.
	ProfileToken string `env:"NOTIFYKIT_PROFILE_TOKEN"`
	// UserID is the default user identifier for stream and API calls.
	UserID string `env:"NOTIFYKIT_USER_ID"`
	// Debug switches on verbose diagnostic logging.
	Debug bool `env:"NOTIFYKIT_DEBUG" envDefault:"false"`
	// ReconnectDelay is the fixed delay between stream reconnect attempts.
	ReconnectDelay time.Duration `env:"NOTIFYKIT_RECONNECT_DELAY" envDefault:"3s"`
	// MaxReconnectAttempts bounds consecutive reconnects; 0 disables auto-reconnect.
	MaxReconnectAttempts int `env:"NOTIFYKIT_MAX_RECONNECT_ATTEMPTS" envDefault:"5"`
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.ReconnectDelay < 0 {
		return fmt.Errorf("%w: reconnect delay must not be negative", ErrInvalidConfig)
	}
	if c.MaxReconnectAttempts < 0 {
		return fmt.Errorf("%w: max reconnect attempts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads the configuration from NOTIFYKIT_* environment variables,
// loading the local .env file first when present.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
