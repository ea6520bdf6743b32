package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LIBDESK_CONFIG", "")
	for _, env := range keys {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, AuthModeStub, cfg.Auth.Mode)
	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 0, cfg.Auth.LoginRateLimit)
	assert.False(t, cfg.Auth.TrustProxy)
	assert.Equal(t, "UTC", cfg.Desk.Timezone)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_MODE", "Credentials")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOGIN_RATE_LIMIT", "5")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("DESK_TIMEZONE", "Europe/Berlin")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://desk.example.org ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, AuthModeCredentials, cfg.Auth.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 5, cfg.Auth.LoginRateLimit)
	assert.True(t, cfg.Auth.TrustProxy)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, []string{"https://desk.example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "libdesk.toml")
	content := "[server]\nport = \"7070\"\n\n[auth]\nusers_file = \"/etc/libdesk/users.yaml\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("LIBDESK_CONFIG", path)
	t.Setenv("PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7171", cfg.Server.Port, "env wins over file")
	assert.Equal(t, "/etc/libdesk/users.yaml", cfg.Auth.UsersFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown auth mode", map[string]string{"AUTH_MODE": "ldap"}},
		{"unknown timezone", map[string]string{"DESK_TIMEZONE": "Mars/Olympus"}},
		{"negative rate limit", map[string]string{"LOGIN_RATE_LIMIT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
