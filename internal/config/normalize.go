package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeWatch()
	return c.normalizeLogging()
}

func (c *Config) normalizeScan() error {
	c.Scan.DRIDir = strings.TrimSpace(c.Scan.DRIDir)
	if c.Scan.DRIDir == "" {
		if value, ok := os.LookupEnv(driDirEnv); ok && strings.TrimSpace(value) != "" {
			c.Scan.DRIDir = strings.TrimSpace(value)
		} else {
			c.Scan.DRIDir = defaultDRIDir
		}
	}
	var err error
	if c.Scan.DRIDir, err = expandPath(c.Scan.DRIDir); err != nil {
		return fmt.Errorf("scan.dri_dir: %w", err)
	}
	if strings.TrimSpace(c.Scan.LockPath) == "" {
		c.Scan.LockPath = defaultLockPath()
	}
	if c.Scan.LockPath, err = expandPath(strings.TrimSpace(c.Scan.LockPath)); err != nil {
		return fmt.Errorf("scan.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = "table"
	}
	c.Output.Color = strings.ToLower(strings.TrimSpace(c.Output.Color))
	if c.Output.Color == "" {
		c.Output.Color = defaultOutputColor
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = defaultDebounceMS
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaultMaxSizeMB
	}
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = expanded
	}
	return nil
}
