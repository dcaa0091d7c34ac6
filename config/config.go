// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/blogem/venmo-login/authenticator/venmo"
)

// Config holds all application settings
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"venmo_login.db"`
	UseHTTPS        bool          `env:"USE_HTTPS" envDefault:"false"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"1h"`

	Venmo Venmo
	OIDC  OIDC
}

// Venmo holds the Venmo application registration
type Venmo struct {
	ClientID         string   `env:"VENMO_CLIENT_ID,required"`
	ClientSecret     string   `env:"VENMO_CLIENT_SECRET,required"`
	CallbackURL      string   `env:"VENMO_CALLBACK_URL" envDefault:"http://localhost:3000/auth/venmo/callback"`
	AuthorizationURL string   `env:"VENMO_AUTHORIZATION_URL"`
	TokenURL         string   `env:"VENMO_TOKEN_URL"`
	ProfileURL       string   `env:"VENMO_PROFILE_URL"`
	PaymentsURL      string   `env:"VENMO_PAYMENTS_URL"`
	Scopes           []string `env:"VENMO_SCOPES" envSeparator:"," envDefault:"make_payments,access_feed,access_profile,access_email,access_phone,access_balance,access_friends"`

	// FieldPolicy is "truthy" (drop false, 0 and "" optional fields) or "present"
	FieldPolicy venmo.FieldPolicy `env:"VENMO_FIELD_POLICY" envDefault:"truthy"`
}

// OIDC holds the optional OpenID Connect login settings
type OIDC struct {
	Issuer       string   `env:"OIDC_ISSUER"`
	ClientID     string   `env:"OIDC_CLIENT_ID"`
	ClientSecret string   `env:"OIDC_CLIENT_SECRET"`
	CallbackURL  string   `env:"OIDC_CALLBACK_URL" envDefault:"http://localhost:3000/auth/openid/callback"`
	Scopes       []string `env:"OIDC_SCOPES" envSeparator:","`
}

// Enabled reports whether OpenID Connect login is configured
func (o OIDC) Enabled() bool {
	return o.Issuer != ""
}

// Load reads the given .env files, or .env when none are given, and parses the
// environment into a Config. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.OIDC.Enabled() && cfg.OIDC.ClientID == "" {
		return nil, errors.New("OIDC_CLIENT_ID is required when OIDC_ISSUER is set")
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}
