package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	outputFormats = []string{"table", "json", "yaml"}
	outputColors  = []string{"auto", "always", "never"}
	logFormats    = []string{"console", "json"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := oneOf("output.format", c.Output.Format, outputFormats); err != nil {
		return err
	}
	if err := oneOf("output.color", c.Output.Color, outputColors); err != nil {
		return err
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must not be negative")
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if !c.Scan.Nvidia && !c.Scan.Vaapi {
		return errors.New("scan: at least one of scan.nvidia and scan.vaapi must be enabled")
	}
	if strings.TrimSpace(c.Scan.DRIDir) == "" {
		return errors.New("scan.dri_dir must be set")
	}
	if strings.TrimSpace(c.Scan.LockPath) == "" {
		return errors.New("scan.lock_path must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := oneOf("logging.format", c.Logging.Format, logFormats); err != nil {
		return err
	}
	if err := oneOf("logging.level", c.Logging.Level, logLevels); err != nil {
		return err
	}
	if c.Logging.MaxSizeMB < 0 {
		return errors.New("logging.max_size_mb must not be negative")
	}
	if c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must not be negative")
	}
	return nil
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s (got %q)", key, strings.Join(allowed, ", "), value)
}
