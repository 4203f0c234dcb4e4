package config

import (
	"errors"
	"fmt"
)

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.App.Port)
	}
	if c.Security.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if IsProduction() && len(c.Security.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	if err := c.Pricing.validate(); err != nil {
		return err
	}
	if c.Moderation.SweepInterval <= 0 {
		return errors.New("MODERATION_SWEEP_INTERVAL must be positive")
	}
	return nil
}
