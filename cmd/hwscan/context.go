package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"hwscan/internal/config"
	"hwscan/internal/dylib"
	"hwscan/internal/hwscan"
	"hwscan/internal/logging"
	"hwscan/internal/nvidia"
	"hwscan/internal/vaapi"
)

type commandContext struct {
	configFlag   string
	logLevelFlag string

	// Driver bindings; nil selects the system libraries.
	nvidia nvidia.API
	vaapi  vaapi.API
	loader dylib.Loader

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) driverLoader() dylib.Loader {
	if c.loader != nil {
		return c.loader
	}
	return dylib.NewLoader()
}

// newScanner builds a scanner from the loaded configuration.
func (c *commandContext) newScanner(cfg *config.Config, logger *slog.Logger) *hwscan.Scanner {
	opts := []hwscan.Option{
		hwscan.WithVendors(cfg.Scan.Nvidia, cfg.Scan.Vaapi),
		hwscan.WithParallel(cfg.Scan.Parallel),
		hwscan.WithDRIDir(cfg.Scan.DRIDir),
		hwscan.WithLogger(logger),
	}
	if c.nvidia != nil {
		opts = append(opts, hwscan.WithNvidia(c.nvidia))
	}
	if c.vaapi != nil {
		opts = append(opts, hwscan.WithVaapi(c.vaapi))
	}
	return hwscan.New(opts...)
}

func (c *commandContext) debounce(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
