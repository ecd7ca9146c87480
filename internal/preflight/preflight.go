package preflight

import (
	"strings"

	"hwscan/internal/config"
	"hwscan/internal/vaapi"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check applicable to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.Scan.Vaapi {
		results = append(results, CheckDirectoryAccess("DRI directory", cfg.Scan.DRIDir, ReadOnly))
		results = append(results, CheckRenderNodes(cfg.Scan.DRIDir)...)
	}
	if dir := strings.TrimSpace(cfg.Logging.Dir); dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", dir, ReadWrite))
	}
	return results
}

// CheckRenderNodes checks every render node a scan of driDir would open.
func CheckRenderNodes(driDir string) []Result {
	paths, err := vaapi.EnumerateRenderNodes(driDir)
	if err != nil {
		return []Result{{Name: "Render nodes", Detail: err.Error()}}
	}
	if len(paths) == 0 {
		return []Result{{Name: "Render nodes", Detail: "none found under " + driDir}}
	}
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, CheckRenderNode(path))
	}
	return results
}
