package dylib

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded marks a vendor whose libraries are not installed.
	ErrNotLoaded = errors.New("library not loaded")
	// ErrSymbolNotFound marks a library missing a required symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// LoadError reports that none of a library's candidate names could be opened.
type LoadError struct {
	Vendor string
	Names  []string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: load %s", e.Vendor, strings.Join(e.Names, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotLoaded}
	}
	return []error{ErrNotLoaded, e.Err}
}

// SymbolError reports a required symbol missing from a loaded library.
type SymbolError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *SymbolError) Error() string {
	msg := fmt.Sprintf("resolve %s in %s", e.Symbol, e.Library)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SymbolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSymbolNotFound}
	}
	return []error{ErrSymbolNotFound, e.Err}
}

// InitError wraps a failed Spec.Init call.
type InitError struct {
	Vendor string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: initialize: %v", e.Vendor, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
