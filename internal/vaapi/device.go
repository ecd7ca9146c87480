package vaapi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDRIDir is where DRM device nodes live.
const DefaultDRIDir = "/dev/dri"

// EnumerateRenderNodes lists render node paths under driDir. Entries of
// driDir/by-path ending in "render" win; otherwise entries of driDir
// starting with "render" are used. Paths keep the directory they were found
// in, so by-path symlinks are returned unresolved. Missing directories yield
// an empty list.
func EnumerateRenderNodes(driDir string) ([]string, error) {
	if strings.TrimSpace(driDir) == "" {
		driDir = DefaultDRIDir
	}
	paths, err := matchEntries(filepath.Join(driDir, "by-path"), func(name string) bool {
		return strings.HasSuffix(name, "render")
	})
	if err != nil {
		return nil, err
	}
	if len(paths) > 0 {
		return paths, nil
	}
	return matchEntries(driDir, func(name string) bool {
		return strings.HasPrefix(name, "render")
	})
}

func matchEntries(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrEnumerateDevices, err)
	}
	var paths []string
	for _, entry := range entries {
		if match(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
