// Package config loads, normalizes, and validates hwscan configuration.
//
// The scanning core takes no configuration. These settings drive the shell
// around it: which backends the CLI enables, where render nodes live, how
// reports and logs are written, and how watch mode debounces hotplug events.
// Load applies defaults, decodes TOML, expands ~ paths and validates enums,
// so callers always receive a usable Config.
package config
