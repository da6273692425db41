// Package config loads application configuration from a YAML file with
// environment-variable overrides.
//
// Everything the application needs to vary by environment lives here,
// including the comment moderation word list — the banned words and the
// warning message are configuration injected into the moderation filter,
// not literals buried in a handler.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Server holds the HTTP listener settings.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds storage settings. Path may be ":memory:" in tests.
type Database struct {
	Path string `mapstructure:"path"`
}

// GitHub holds OAuth app credentials. All three must be set for the
// GitHub login route to be registered; otherwise it is silently skipped.
type GitHub struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Auth holds session and credential settings.
type Auth struct {
	// JWTSecret signs session cookies. At least 16 characters; generate with
	// `openssl rand -hex 32`. Override with NOTEBOARD_AUTH_JWT_SECRET.
	JWTSecret string `mapstructure:"jwt_secret"`
	// SessionTTLMinutes is how long a login lasts before the cookie expires.
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes"`
	BcryptCost        int    `mapstructure:"bcrypt_cost"`
	GitHub            GitHub `mapstructure:"github"`
}

// Moderation configures the banned-word comment filter.
type Moderation struct {
	// BadWords are rejected as substrings of comment text, case-insensitively.
	BadWords []string `mapstructure:"bad_words"`
	// Warning is the fixed message attached to the text field on rejection.
	Warning string `mapstructure:"warning"`
}

// Config is the root configuration object.
type Config struct {
	Server     Server     `mapstructure:"server"`
	Database   Database   `mapstructure:"database"`
	Auth       Auth       `mapstructure:"auth"`
	Moderation Moderation `mapstructure:"moderation"`
}

// Load reads configuration from the given file (optional — pass "" to run on
// defaults) and applies NOTEBOARD_* environment overrides.
//
// Precedence, lowest to highest: defaults < config file < environment.
// Example override: NOTEBOARD_SERVER_PORT=9090, NOTEBOARD_AUTH_JWT_SECRET=...
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults keep `go run ./cmd/server` working with zero setup.
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/noteboard.db")
	v.SetDefault("auth.session_ttl_minutes", 60*24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("moderation.bad_words", []string{"редиска", "негодяй"})
	v.SetDefault("moderation.warning", "Не ругайтесь!")

	v.SetEnvPrefix("noteboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	return cfg, nil
}
