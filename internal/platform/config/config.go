package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the gate needs from the environment so main
// stays lean. Defaults mirror the reference deployment: six-hour tokens,
// minimum age eighteen.
type Config struct {
	Addr string `env:"GATE_ADDR" envDefault:":8080"`

	// RedisURL selects the redis-backed token store when set; empty means
	// the in-memory store (single instance, dev/test).
	RedisURL string `env:"GATE_REDIS_URL"`

	// PostgresURL selects the postgres consent-record store when set; empty
	// means the in-memory store.
	PostgresURL string `env:"GATE_POSTGRES_URL"`

	// TokenTTL bounds both the stored payload and the cookie so they go
	// stale together.
	TokenTTL time.Duration `env:"GATE_TOKEN_TTL" envDefault:"6h"`

	MinAge int `env:"GATE_MIN_AGE" envDefault:"18"`

	// Timezone for age math. Empty uses the system timezone; an unloadable
	// value falls back to UTC.
	Timezone string `env:"GATE_TIMEZONE"`

	// RegisterURL and ConsentURL are the two surfaces the gate redirects
	// between.
	RegisterURL string `env:"GATE_REGISTER_URL" envDefault:"/register"`
	ConsentURL  string `env:"GATE_CONSENT_URL" envDefault:"/consent"`

	// Cookie scope covers both surfaces; keep it as narrow as the two
	// paths allow.
	CookiePath   string `env:"GATE_COOKIE_PATH" envDefault:"/"`
	CookieDomain string `env:"GATE_COOKIE_DOMAIN"`

	// TrustForwardedProto marks cookies Secure based on X-Forwarded-Proto
	// when terminating TLS upstream.
	TrustForwardedProto bool `env:"GATE_TRUST_FORWARDED_PROTO"`

	ShutdownTimeout time.Duration `env:"GATE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone for age calculations.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
