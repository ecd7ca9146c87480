package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"hwscan/internal/capability"
	"hwscan/internal/nvidia"
	"hwscan/internal/testsupport"
	"hwscan/internal/vaapi"
)

const nvdecVendor = "VA-API NVDEC driver [direct backend]"

type cliTestEnv struct {
	baseDir    string
	configPath string
	lockPath   string
	nvidia     *testsupport.FakeNvidia
	vaapi      *testsupport.FakeVaapi
	loader     *testsupport.FakeLoader
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")

	driDir := testsupport.NewDRITree(t,
		testsupport.DRINode{Name: "renderD128", ByPath: "pci-0000:00:02.0-render"},
		testsupport.DRINode{Name: "renderD129", ByPath: "pci-0000:01:00.0-render"},
	)

	va := testsupport.NewFakeVaapi()
	va.Displays[filepath.Join(driDir, "by-path", "pci-0000:00:02.0-render")] = &testsupport.FakeVADisplay{
		VendorString: "Intel iHD driver - 24.1.0",
		Profiles:     []vaapi.Profile{vaapi.ProfileH264High},
		Entrypoints:  map[vaapi.Profile][]vaapi.Entrypoint{vaapi.ProfileH264High: {vaapi.EntrypointVLD}},
	}
	va.Displays[filepath.Join(driDir, "by-path", "pci-0000:01:00.0-render")] = &testsupport.FakeVADisplay{
		VendorString: nvdecVendor,
		Profiles:     []vaapi.Profile{vaapi.ProfileHEVCMain},
		Entrypoints:  map[vaapi.Profile][]vaapi.Entrypoint{vaapi.ProfileHEVCMain: {vaapi.EntrypointVLD}},
	}

	nv := testsupport.NewFakeNvidia(testsupport.FakeCUDADevice{
		Name: "NVIDIA RTX A2000",
		UUID: uuid.MustParse("8a1f3b5c-0d2e-4f6a-9b7c-1d2e3f4a5b6c"),
		Decode: map[nvidia.DecodeQuery]nvidia.DecoderCaps{
			{Codec: capability.CodecHevc, Chroma: capability.ChromaYuv420, Depth: capability.ColorDepth8}: {Supported: true, MaxWidth: 8192, MaxHeight: 8192},
		},
	})

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		lockPath:   filepath.Join(base, "cache", "scan.lock"),
		nvidia:     nv,
		vaapi:      va,
		loader:     testsupport.NewFakeLoader(),
	}
	writeTestConfig(t, env.configPath, driDir, env.lockPath)
	return env
}

func writeTestConfig(t *testing.T, path, driDir, lockPath string) {
	t.Helper()
	content := fmt.Sprintf(
		"[scan]\ndri_dir = %q\nlock_path = %q\n\n[output]\ncolor = \"never\"\n\n[logging]\nlevel = \"error\"\n",
		driDir,
		lockPath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.nvidia = env.nvidia
	ctx.vaapi = env.vaapi
	ctx.loader = env.loader

	cmd := newRootCommandWithContext(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("did not expect %q in output:\n%s", needle, haystack)
	}
}
