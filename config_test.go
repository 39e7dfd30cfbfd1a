package notifykit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := notifykit.Config{
		BaseURL:              "https://api.example.com",
		ReconnectDelay:       3 * time.Second,
		MaxReconnectAttempts: 5,
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("zero attempts and zero delay are allowed", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.ReconnectDelay = 0
		cfg.MaxReconnectAttempts = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing base URL", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.BaseURL = ""
		require.ErrorIs(t, cfg.Validate(), notifykit.ErrInvalidConfig)
	})

	t.Run("negative reconnect delay", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.ReconnectDelay = -time.Second
		require.ErrorIs(t, cfg.Validate(), notifykit.ErrInvalidConfig)
	})

	t.Run("negative max attempts", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.MaxReconnectAttempts = -1
		require.ErrorIs(t, cfg.Validate(), notifykit.ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("NOTIFYKIT_BASE_URL", "https://api.example.com")
		t.Setenv("NOTIFYKIT_PROFILE_TOKEN", "prof_tok")
		t.Setenv("NOTIFYKIT_RECONNECT_DELAY", "500ms")
		t.Setenv("NOTIFYKIT_MAX_RECONNECT_ATTEMPTS", "2")

		cfg, err := notifykit.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, "prof_tok", cfg.ProfileToken)
		assert.Equal(t, 500*time.Millisecond, cfg.ReconnectDelay)
		assert.Equal(t, 2, cfg.MaxReconnectAttempts)
	})

	t.Run("invalid environment config rejected", func(t *testing.T) {
		t.Setenv("NOTIFYKIT_BASE_URL", "")

		_, err := notifykit.LoadConfig()
		require.ErrorIs(t, err, notifykit.ErrInvalidConfig)
	})
}
