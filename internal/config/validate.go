package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.MatchThreshold < 0 || c.Resolver.MatchThreshold > 1 {
		return errors.New("resolver.match_threshold must be between 0 and 1")
	}
	if c.Resolver.SuggestThreshold < 0 || c.Resolver.SuggestThreshold > 1 {
		return errors.New("resolver.suggest_threshold must be between 0 and 1")
	}
	if c.Resolver.SuggestThreshold > c.Resolver.MatchThreshold {
		return fmt.Errorf("resolver.suggest_threshold (%.2f) must not exceed resolver.match_threshold (%.2f)",
			c.Resolver.SuggestThreshold, c.Resolver.MatchThreshold)
	}
	if c.Resolver.MaxCandidates < 1 || c.Resolver.MaxCandidates > 20 {
		return errors.New("resolver.max_candidates must be between 1 and 20")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
