package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Desk   DeskConfig
	NATS   NATSConfig
	Redis  RedisConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type AuthConfig struct {
	Mode       string // stub or credentials
	UsersFile  string
	JWTSecret  string
	SessionTTL time.Duration
	// LoginRateLimit is the number of login attempts allowed per LoginRateWindow and client IP.
	// Zero disables the limiter.
	LoginRateLimit  int
	LoginRateWindow time.Duration
	// TrustProxy keys the login limit on X-Forwarded-For instead of the peer address.
	TrustProxy bool
}

type DeskConfig struct {
	Timezone string
}

type NATSConfig struct {
	URL string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	AuthModeStub        = "stub"
	AuthModeCredentials = "credentials"
)

// keys maps viper keys to the environment variables they are read from.
var keys = map[string]string{
	"server.port":            "PORT",
	"server.read_timeout":    "SERVER_READ_TIMEOUT",
	"server.write_timeout":   "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":    "SERVER_IDLE_TIMEOUT",
	"auth.mode":              "AUTH_MODE",
	"auth.users_file":        "AUTH_USERS_FILE",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.session_ttl":       "SESSION_TTL",
	"auth.login_rate_limit":  "LOGIN_RATE_LIMIT",
	"auth.login_rate_window": "LOGIN_RATE_WINDOW",
	"auth.trust_proxy":       "TRUST_PROXY",
	"desk.timezone":          "DESK_TIMEZONE",
	"nats.url":               "NATS_URL",
	"redis.url":              "REDIS_URL",
	"redis.password":         "REDIS_PASSWORD",
	"redis.db":               "REDIS_DB",
	"cors.allowed_origins":   "CORS_ALLOWED_ORIGINS",
}

// Load resolves configuration from defaults, an optional TOML file named by LIBDESK_CONFIG
// and the environment. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("auth.mode", AuthModeStub)
	v.SetDefault("auth.users_file", "users.yaml")
	v.SetDefault("auth.jwt_secret", "dev-only-secret-change-in-prod")
	v.SetDefault("auth.session_ttl", 8*time.Hour)
	v.SetDefault("auth.login_rate_limit", 0)
	v.SetDefault("auth.login_rate_window", time.Minute)
	v.SetDefault("auth.trust_proxy", false)
	v.SetDefault("desk.timezone", "UTC")
	v.SetDefault("nats.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://localhost:3000")

	if path := os.Getenv("LIBDESK_CONFIG"); path != "" {
		v.SetConfigType("toml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
		},
		Auth: AuthConfig{
			Mode:            strings.ToLower(strings.TrimSpace(v.GetString("auth.mode"))),
			UsersFile:       v.GetString("auth.users_file"),
			JWTSecret:       v.GetString("auth.jwt_secret"),
			SessionTTL:      v.GetDuration("auth.session_ttl"),
			LoginRateLimit:  v.GetInt("auth.login_rate_limit"),
			LoginRateWindow: v.GetDuration("auth.login_rate_window"),
			TrustProxy:      v.GetBool("auth.trust_proxy"),
		},
		Desk: DeskConfig{
			Timezone: v.GetString("desk.timezone"),
		},
		NATS: NATSConfig{
			URL: v.GetString("nats.url"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("redis.url"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the desk cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeStub, AuthModeCredentials:
	default:
		return fmt.Errorf("invalid AUTH_MODE %q: want %q or %q", c.Auth.Mode, AuthModeStub, AuthModeCredentials)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Auth.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	if _, err := time.LoadLocation(c.Desk.Timezone); err != nil {
		return fmt.Errorf("invalid DESK_TIMEZONE %q: %w", c.Desk.Timezone, err)
	}
	return nil
}

// Location returns the time zone used to turn instants into calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Desk.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
