package testsupport

import (
	"fmt"
	"sync"

	"hwscan/internal/dylib"
)

// FakeLoader is an in-memory dylib.Loader that counts open attempts.
type FakeLoader struct {
	mu        sync.Mutex
	libraries map[string]*FakeLibrary
	calls     map[string]int
	next      uintptr
}

// NewFakeLoader returns a loader with no libraries installed.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{
		libraries: make(map[string]*FakeLibrary),
		calls:     make(map[string]int),
		next:      0x1000,
	}
}

// Install registers a library under name exporting symbols.
func (f *FakeLoader) Install(name string, symbols ...string) *FakeLibrary {
	f.mu.Lock()
	defer f.mu.Unlock()
	lib := &FakeLibrary{name: name, symbols: make(map[string]uintptr, len(symbols))}
	for _, sym := range symbols {
		f.next += 0x10
		lib.symbols[sym] = f.next
	}
	f.libraries[name] = lib
	return lib
}

// Open implements dylib.Loader.
func (f *FakeLoader) Open(name string) (dylib.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	lib, ok := f.libraries[name]
	if !ok {
		return nil, fmt.Errorf("%s: cannot open shared object file: No such file or directory", name)
	}
	lib.mu.Lock()
	lib.opens++
	lib.mu.Unlock()
	return lib, nil
}

// Calls returns how many times name was opened, successfully or not.
func (f *FakeLoader) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// TotalCalls returns the number of Open calls across every name.
func (f *FakeLoader) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// FakeLibrary is a library served by FakeLoader.
type FakeLibrary struct {
	mu      sync.Mutex
	name    string
	symbols map[string]uintptr
	opens   int
	closes  int
}

// Lookup implements dylib.Library.
func (l *FakeLibrary) Lookup(symbol string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	addr, ok := l.symbols[symbol]
	if !ok {
		return 0, fmt.Errorf("%s: undefined symbol: %s", l.name, symbol)
	}
	return addr, nil
}

// Close implements dylib.Library.
func (l *FakeLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closes++
	return nil
}

// Closes reports how many times the library was closed.
func (l *FakeLibrary) Closes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closes
}
