package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"hwscan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The DRI directory exists but holds no render nodes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Scan.DRIDir = filepath.Join(base, "dri")
	cfgVal.Scan.LockPath = filepath.Join(base, "cache", "scan.lock")
	cfgVal.Output.Color = "never"
	if err := os.MkdirAll(cfgVal.Scan.DRIDir, 0o755); err != nil {
		t.Fatalf("mkdir dri dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDRIDir points the scan at an existing DRM tree.
func WithDRIDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.DRIDir = dir
	}
}

// WithVendors toggles the NVIDIA and VA-API backends.
func WithVendors(nvidia, vaapi bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Nvidia = nvidia
		b.cfg.Scan.Vaapi = vaapi
	}
}

// WithLogDir enables the rotating log file under the temp root.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}
