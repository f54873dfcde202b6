package auth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig is the environment-backed Config implementation used by
// the server binary.
type EnvConfig struct {
	HTTPAddr              string `env:"AUTH_HTTP_ADDR" envDefault:":3000"`
	DatabaseDSN           string `env:"AUTH_DATABASE_DSN" envDefault:"file:auth.db?cache=shared"`
	SigningKey            string `env:"AUTH_SIGNING_KEY,required"`
	Issuer                string `env:"AUTH_ISSUER" envDefault:"go-auth-service"`
	ContextKey            string `env:"AUTH_CONTEXT_KEY" envDefault:"claims"`
	AuthScheme            string `env:"AUTH_SCHEME" envDefault:"Bearer"`
	TokenExpiration       int    `env:"AUTH_TOKEN_EXPIRATION" envDefault:"86400"`
	ScopedTokenExpiration int    `env:"AUTH_SCOPED_TOKEN_EXPIRATION" envDefault:"3600"`
	NotifierFrom          string `env:"AUTH_NOTIFIER_FROM" envDefault:"no-reply@localhost"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string { return c.SigningKey }

func (c *EnvConfig) GetIssuer() string { return c.Issuer }

func (c *EnvConfig) GetContextKey() string { return c.ContextKey }

func (c *EnvConfig) GetAuthScheme() string { return c.AuthScheme }

func (c *EnvConfig) GetTokenExpiration() int { return c.TokenExpiration }

func (c *EnvConfig) GetScopedTokenExpiration() int { return c.ScopedTokenExpiration }
