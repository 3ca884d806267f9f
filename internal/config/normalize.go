package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDataset()
	c.normalizeKey()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, "deltakey.db")
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.SessionDir) == "" {
		c.Paths.SessionDir = filepath.Join(c.Paths.DataDir, "sessions")
	}
	if c.Paths.SessionDir, err = expandPath(c.Paths.SessionDir); err != nil {
		return fmt.Errorf("paths.session_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeDataset() {
	c.Dataset.CharactersFile = strings.TrimSpace(c.Dataset.CharactersFile)
	if c.Dataset.CharactersFile == "" {
		c.Dataset.CharactersFile = defaultCharsFile
	}
	c.Dataset.SpecificationsFile = strings.TrimSpace(c.Dataset.SpecificationsFile)
	if c.Dataset.SpecificationsFile == "" {
		c.Dataset.SpecificationsFile = defaultSpecsFile
	}
	c.Dataset.ItemsFile = strings.TrimSpace(c.Dataset.ItemsFile)
	if c.Dataset.ItemsFile == "" {
		c.Dataset.ItemsFile = defaultItemsFile
	}
}

func (c *Config) normalizeKey() {
	if c.Key.MaxAutoSteps <= 0 {
		c.Key.MaxAutoSteps = defaultMaxAutoSteps
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
