package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hwscan/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HWSCAN_DRI_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "hwscan", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if !cfg.Scan.Nvidia || !cfg.Scan.Vaapi || cfg.Scan.Parallel {
		t.Fatalf("unexpected scan defaults %+v", cfg.Scan)
	}
	if cfg.Scan.DRIDir != "/dev/dri" {
		t.Fatalf("unexpected dri dir %q", cfg.Scan.DRIDir)
	}
	if cfg.Scan.LockPath != filepath.Join(tempHome, ".cache", "hwscan", "scan.lock") {
		t.Fatalf("expected lock path expanded under HOME, got %q", cfg.Scan.LockPath)
	}
	if cfg.Output.Format != "table" || cfg.Output.Color != "auto" {
		t.Fatalf("unexpected output defaults %+v", cfg.Output)
	}
	if cfg.Watch.DebounceMS != 750 {
		t.Fatalf("unexpected debounce %d", cfg.Watch.DebounceMS)
	}
	if cfg.Logging.Dir != "" || cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("hwscan.toml", []byte("[output]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "hwscan.toml" {
		t.Fatalf("expected project file, got %q exists=%v", resolved, exists)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Output.Format)
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scan]
nvidia = false
dri_dir = "~/dri"

[output]
format = " YAML "
color = ""

[logging]
level = "DEBUG"
dir = "~/logs"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if cfg.Scan.Nvidia || !cfg.Scan.Vaapi {
		t.Fatalf("unexpected backends %+v", cfg.Scan)
	}
	if cfg.Scan.DRIDir != filepath.Join(tempHome, "dri") {
		t.Fatalf("unexpected dri dir %q", cfg.Scan.DRIDir)
	}
	if cfg.Output.Format != "yaml" || cfg.Output.Color != "auto" {
		t.Fatalf("unexpected output %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Dir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadDRIDirFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	envDir := t.TempDir()
	t.Setenv("HWSCAN_DRI_DIR", envDir)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[scan]\nparallel = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scan.DRIDir != envDir {
		t.Fatalf("expected dri dir from environment, got %q", cfg.Scan.DRIDir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[scan]\nnvdia = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "nvdia") {
		t.Fatalf("expected unknown key error naming nvdia, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"output format", func(c *config.Config) { c.Output.Format = "xml" }, "output.format must be one of table, json, yaml"},
		{"color", func(c *config.Config) { c.Output.Color = "sometimes" }, "output.color"},
		{"no backend", func(c *config.Config) { c.Scan.Nvidia, c.Scan.Vaapi = false, false }, "at least one"},
		{"debounce", func(c *config.Config) { c.Watch.DebounceMS = -1 }, "watch.debounce_ms"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"log format", func(c *config.Config) { c.Logging.Format = "logfmt" }, "logging.format"},
		{"backups", func(c *config.Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scan.DRIDir = "/dev/dri"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	cfg := config.Default()
	cfg.Scan.DRIDir = "/dev/dri"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample must load: %v", err)
	}
	if decoded.Output.Format != config.Default().Output.Format {
		t.Fatalf("sample output format %q drifted from defaults", decoded.Output.Format)
	}
}
