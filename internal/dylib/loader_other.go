//go:build !(linux || darwin || freebsd)

package dylib

import (
	"errors"
	"runtime"
)

// NewLoader returns a Loader that never finds a library on this platform.
func NewLoader() Loader {
	return LoaderFunc(func(string) (Library, error) {
		return nil, errors.New("dynamic loading unsupported on " + runtime.GOOS)
	})
}
