package dylib_test

import (
	"errors"
	"sync"
	"testing"

	"hwscan/internal/dylib"
	"hwscan/internal/testsupport"
)

func vaSpec() dylib.Spec {
	return dylib.Spec{
		Vendor: "vaapi",
		Libraries: []dylib.LibrarySpec{
			{Key: "va", Names: []string{"libva.so.2", "libva.so"}, Required: []string{"vaInitialize"}, Optional: []string{"vaErrorStr"}},
			{Key: "va-drm", Names: []string{"libva-drm.so.2", "libva-drm.so"}, Required: []string{"vaGetDisplayDRM"}},
		},
	}
}

func TestEnsureCachesAbsence(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	registry := dylib.NewRegistry(loader, vaSpec())

	_, first := registry.Ensure()
	_, second := registry.Ensure()
	if !errors.Is(first, dylib.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", first)
	}
	if first != second {
		t.Fatalf("expected identical cached error, got %v then %v", first, second)
	}
	if got := loader.Calls("libva.so.2"); got != 1 {
		t.Fatalf("expected one open attempt for primary name, got %d", got)
	}
	if got := loader.Calls("libva.so"); got != 1 {
		t.Fatalf("expected one open attempt for fallback name, got %d", got)
	}
	if got := loader.TotalCalls(); got != 2 {
		t.Fatalf("expected 2 open attempts in total, got %d", got)
	}
}

func TestEnsureFallsBackToUnversionedName(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	loader.Install("libva.so", "vaInitialize")
	loader.Install("libva-drm.so.2", "vaGetDisplayDRM")

	libs, err := dylib.NewRegistry(loader, vaSpec()).Ensure()
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if libs.Path("va") != "libva.so" || libs.Path("va-drm") != "libva-drm.so.2" {
		t.Fatalf("unexpected resolved names %q %q", libs.Path("va"), libs.Path("va-drm"))
	}
	if _, err := libs.Symbol("va", "vaInitialize"); err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if _, ok := libs.OptionalSymbol("va", "vaErrorStr"); ok {
		t.Fatal("expected optional symbol to be absent")
	}
	if got := libs.Keys(); len(got) != 2 || got[0] != "va" || got[1] != "va-drm" {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestEnsureMissingRequiredSymbolIsNotAbsence(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	lib := loader.Install("libva.so.2")
	loader.Install("libva-drm.so.2", "vaGetDisplayDRM")

	_, err := dylib.NewRegistry(loader, vaSpec()).Ensure()
	var symErr *dylib.SymbolError
	if !errors.As(err, &symErr) {
		t.Fatalf("expected SymbolError, got %v", err)
	}
	if symErr.Symbol != "vaInitialize" || symErr.Library != "libva.so.2" {
		t.Fatalf("unexpected symbol error %+v", symErr)
	}
	if errors.Is(err, dylib.ErrNotLoaded) {
		t.Fatal("missing symbol must not read as absence")
	}
	if !errors.Is(err, dylib.ErrSymbolNotFound) {
		t.Fatal("expected ErrSymbolNotFound in chain")
	}
	if lib.Closes() != 1 {
		t.Fatalf("expected library to be closed after failed resolve, got %d", lib.Closes())
	}
	if loader.Calls("libva.so") != 0 {
		t.Fatal("fallback name must not be tried after a symbol failure")
	}
}

func TestEnsureClosesEarlierLibrariesWhenLaterOneIsMissing(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	va := loader.Install("libva.so.2", "vaInitialize")

	_, err := dylib.NewRegistry(loader, vaSpec()).Ensure()
	if !errors.Is(err, dylib.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if va.Closes() != 1 {
		t.Fatalf("expected libva to be closed, got %d closes", va.Closes())
	}
}

func TestInitRunsOnceAndFailureIsSticky(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	loader.Install("libcuda.so.1", "cuInit")
	initErr := errors.New("CUDA_ERROR_NO_DEVICE")
	calls := 0
	registry := dylib.NewRegistry(loader, dylib.Spec{
		Vendor:    "nvidia",
		Libraries: []dylib.LibrarySpec{{Key: "cuda", Names: []string{"libcuda.so.1"}, Required: []string{"cuInit"}}},
		Init: func(libs *dylib.Libs) error {
			calls++
			return initErr
		},
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.Ensure()
			if !errors.Is(err, initErr) {
				t.Errorf("expected init error, got %v", err)
			}
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Fatalf("expected init to run once, ran %d times", calls)
	}
	var ie *dylib.InitError
	if _, err := registry.Ensure(); !errors.As(err, &ie) || ie.Vendor != "nvidia" {
		t.Fatalf("expected InitError, got %v", err)
	}
}

func TestOpenFirstTriesNamesInOrder(t *testing.T) {
	loader := testsupport.NewFakeLoader()
	loader.Install("libva.so", "vaInitialize")

	lib, name, err := dylib.OpenFirst(loader, "vaapi", []string{"libva.so.2", "libva.so"})
	if err != nil {
		t.Fatalf("OpenFirst: %v", err)
	}
	defer lib.Close()
	if name != "libva.so" {
		t.Fatalf("expected fallback name, got %q", name)
	}

	_, _, err = dylib.OpenFirst(loader, "nvidia", []string{"libcuda.so.1"})
	var loadErr *dylib.LoadError
	if !errors.As(err, &loadErr) || loadErr.Vendor != "nvidia" || !errors.Is(err, dylib.ErrNotLoaded) {
		t.Fatalf("expected LoadError wrapping ErrNotLoaded, got %v", err)
	}
}
