package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath  = "~/.config/hwscan/config.toml"
	projectConfigName  = "hwscan.toml"
	defaultDRIDir      = "/dev/dri"
	defaultDebounceMS  = 750
	defaultMaxSizeMB   = 10
	defaultMaxBackups  = 3
	driDirEnv          = "HWSCAN_DRI_DIR"
	defaultOutputColor = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Nvidia:   true,
			Vaapi:    true,
			LockPath: defaultLockPath(),
		},
		Output: Output{
			Format: "table",
			Color:  defaultOutputColor,
		},
		Watch: Watch{
			DebounceMS: defaultDebounceMS,
		},
		Logging: Logging{
			Format:     "console",
			Level:      "info",
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
		},
	}
}

func defaultLockPath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "hwscan", "scan.lock")
	}
	return "~/.cache/hwscan/scan.lock"
}
