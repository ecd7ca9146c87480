package vaapi_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hwscan/internal/testsupport"
	"hwscan/internal/vaapi"
)

func TestEnumeratePrefersByPathRenderEntries(t *testing.T) {
	dir := testsupport.NewDRITree(t,
		testsupport.DRINode{Name: "card1", ByPath: "pci-0000:01:00.0-card"},
		testsupport.DRINode{Name: "renderD129", ByPath: "pci-0000:01:00.0-render"},
		testsupport.DRINode{Name: "renderD128", ByPath: "pci-0000:00:02.0-render"},
	)
	paths, err := vaapi.EnumerateRenderNodes(dir)
	if err != nil {
		t.Fatalf("EnumerateRenderNodes: %v", err)
	}
	want := []string{
		filepath.Join(dir, "by-path", "pci-0000:00:02.0-render"),
		filepath.Join(dir, "by-path", "pci-0000:01:00.0-render"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestEnumerateFallsBackToFlatDirectory(t *testing.T) {
	dir := testsupport.NewDRITree(t,
		testsupport.DRINode{Name: "card0"},
		testsupport.DRINode{Name: "renderD128"},
		testsupport.DRINode{Name: "renderD129"},
	)
	paths, err := vaapi.EnumerateRenderNodes(dir)
	if err != nil {
		t.Fatalf("EnumerateRenderNodes: %v", err)
	}
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "renderD128") || paths[1] != filepath.Join(dir, "renderD129") {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestEnumerateFallsBackWhenByPathHasNoRenderEntries(t *testing.T) {
	dir := testsupport.NewDRITree(t,
		testsupport.DRINode{Name: "card0", ByPath: "platform-simple-framebuffer.0-card"},
		testsupport.DRINode{Name: "renderD128"},
	)
	paths, err := vaapi.EnumerateRenderNodes(dir)
	if err != nil {
		t.Fatalf("EnumerateRenderNodes: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "renderD128") {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestEnumerateMissingDirectoryIsEmpty(t *testing.T) {
	paths, err := vaapi.EnumerateRenderNodes(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}
}

func TestEnumerateUnreadableDirectoryFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dri")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := vaapi.EnumerateRenderNodes(file)
	if !errors.Is(err, vaapi.ErrEnumerateDevices) {
		t.Fatalf("expected ErrEnumerateDevices, got %v", err)
	}
}
