package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateKey(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		return errors.New("paths.database_path must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateDataset() error {
	names := map[string]string{
		"dataset.characters_file":     c.Dataset.CharactersFile,
		"dataset.specifications_file": c.Dataset.SpecificationsFile,
		"dataset.items_file":          c.Dataset.ItemsFile,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if strings.ContainsAny(name, "/\\") {
			return fmt.Errorf("%s must be a bare file name", key)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s must differ", other, key)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateKey() error {
	if c.Key.MaxAutoSteps <= 0 {
		return errors.New("key.max_auto_steps must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
}
