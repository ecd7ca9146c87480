//go:build linux || darwin || freebsd

package dylib

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type puregoLoader struct{}

// NewLoader returns a Loader backed by the system dynamic linker.
func NewLoader() Loader { return puregoLoader{} }

func (puregoLoader) Open(name string) (Library, error) {
	handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return &puregoLibrary{name: name, handle: handle}, nil
}

type puregoLibrary struct {
	name   string
	handle uintptr
}

func (l *puregoLibrary) Lookup(symbol string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, fmt.Errorf("%s: nil address", symbol)
	}
	return addr, nil
}

func (l *puregoLibrary) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}
