package dylib

import (
	"errors"
	"fmt"
	"sync"
)

// LibrarySpec describes one shared library of a vendor stack.
type LibrarySpec struct {
	// Key names the library for Libs lookups, e.g. "cuda".
	Key string
	// Names are candidate file names, tried in order.
	Names    []string
	Required []string
	Optional []string
}

// Spec describes everything a vendor needs loaded before first use.
type Spec struct {
	Vendor    string
	Libraries []LibrarySpec
	// Init runs once after every library loaded. Its failure is sticky.
	Init func(*Libs) error
}

// Registry loads a Spec lazily, at most once.
type Registry struct {
	loader Loader
	spec   Spec

	once sync.Once
	libs *Libs
	err  error

	initMu   sync.Mutex
	initDone bool
	initErr  error
}

// NewRegistry returns a Registry that will load spec through loader.
func NewRegistry(loader Loader, spec Spec) *Registry {
	if loader == nil {
		loader = NewLoader()
	}
	return &Registry{loader: loader, spec: spec}
}

// Vendor returns the vendor name the registry was built for.
func (r *Registry) Vendor() string { return r.spec.Vendor }

// Ensure loads the vendor libraries on first use and returns the cached
// result on every later call. Load failures wrap ErrNotLoaded; missing
// required symbols surface as *SymbolError.
func (r *Registry) Ensure() (*Libs, error) {
	r.once.Do(func() {
		r.libs, r.err = r.load()
	})
	if r.err != nil {
		return nil, r.err
	}
	if err := r.initialize(); err != nil {
		return nil, err
	}
	return r.libs, nil
}

func (r *Registry) initialize() error {
	if r.spec.Init == nil {
		return nil
	}
	r.initMu.Lock()
	defer r.initMu.Unlock()
	if !r.initDone {
		r.initDone = true
		if err := r.spec.Init(r.libs); err != nil {
			r.initErr = &InitError{Vendor: r.spec.Vendor, Err: err}
		}
	}
	return r.initErr
}

func (r *Registry) load() (*Libs, error) {
	libs := &Libs{vendor: r.spec.Vendor, byKey: make(map[string]*loadedLibrary, len(r.spec.Libraries))}
	for _, ls := range r.spec.Libraries {
		loaded, err := r.open(ls)
		if err != nil {
			libs.close()
			return nil, err
		}
		libs.byKey[ls.Key] = loaded
		libs.order = append(libs.order, ls.Key)
	}
	return libs, nil
}

// OpenFirst opens the first of names that loader accepts and returns it with
// the name that resolved. When none opens the error is a *LoadError joining
// every attempt.
func OpenFirst(loader Loader, vendor string, names []string) (Library, string, error) {
	var errs []error
	for _, name := range names {
		lib, err := loader.Open(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return lib, name, nil
	}
	return nil, "", &LoadError{Vendor: vendor, Names: names, Err: errors.Join(errs...)}
}

func (r *Registry) open(ls LibrarySpec) (*loadedLibrary, error) {
	lib, name, err := OpenFirst(r.loader, r.spec.Vendor, ls.Names)
	if err != nil {
		return nil, err
	}
	loaded := &loadedLibrary{
		name:     name,
		lib:      lib,
		symbols:  make(map[string]uintptr, len(ls.Required)),
		optional: make(map[string]uintptr, len(ls.Optional)),
	}
	for _, sym := range ls.Required {
		addr, err := lib.Lookup(sym)
		if err != nil {
			_ = lib.Close()
			return nil, &SymbolError{Library: name, Symbol: sym, Err: err}
		}
		loaded.symbols[sym] = addr
	}
	for _, sym := range ls.Optional {
		if addr, err := lib.Lookup(sym); err == nil {
			loaded.optional[sym] = addr
		}
	}
	return loaded, nil
}

type loadedLibrary struct {
	name     string
	lib      Library
	symbols  map[string]uintptr
	optional map[string]uintptr
}

// Libs holds the resolved libraries and symbols of one vendor.
type Libs struct {
	vendor string
	byKey  map[string]*loadedLibrary
	order  []string
}

// Symbol returns the address of a required symbol resolved at load time.
func (l *Libs) Symbol(lib, name string) (uintptr, error) {
	loaded, ok := l.byKey[lib]
	if !ok {
		return 0, &SymbolError{Library: lib, Symbol: name, Err: errors.New("library not in spec")}
	}
	if addr, ok := loaded.symbols[name]; ok {
		return addr, nil
	}
	if addr, ok := loaded.optional[name]; ok {
		return addr, nil
	}
	return 0, &SymbolError{Library: loaded.name, Symbol: name}
}

// OptionalSymbol returns the address of an optional symbol and whether it
// resolved.
func (l *Libs) OptionalSymbol(lib, name string) (uintptr, bool) {
	loaded, ok := l.byKey[lib]
	if !ok {
		return 0, false
	}
	addr, ok := loaded.optional[name]
	return addr, ok
}

// Path returns the candidate name that was opened for lib.
func (l *Libs) Path(lib string) string {
	if loaded, ok := l.byKey[lib]; ok {
		return loaded.name
	}
	return ""
}

// Keys lists library keys in spec order.
func (l *Libs) Keys() []string { return append([]string(nil), l.order...) }

func (l *Libs) close() {
	for _, loaded := range l.byKey {
		_ = loaded.lib.Close()
	}
}
