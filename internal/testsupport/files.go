package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// DRINode describes one entry of a fake /dev/dri tree.
type DRINode struct {
	// Name is the file name under the DRI directory, e.g. renderD128.
	Name string
	// ByPath, when set, adds a by-path symlink with this name pointing at Name.
	ByPath string
}

// NewDRITree builds a fake DRI directory inside t.TempDir and returns its
// path. Device nodes are empty regular files.
func NewDRITree(t testing.TB, nodes ...DRINode) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "dri")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, node := range nodes {
		WriteFile(t, filepath.Join(dir, node.Name))
		if node.ByPath == "" {
			continue
		}
		byPath := filepath.Join(dir, "by-path")
		if err := os.MkdirAll(byPath, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", byPath, err)
		}
		link := filepath.Join(byPath, node.ByPath)
		if err := os.Symlink(filepath.Join("..", node.Name), link); err != nil {
			t.Fatalf("symlink %s: %v", link, err)
		}
	}
	return dir
}

// WriteFile creates an empty file at path, creating parent directories.
func WriteFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
