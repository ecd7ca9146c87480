// Package dylib binds vendor shared libraries at run time.
//
// A Registry is built from a Spec naming the libraries a vendor needs, each
// with candidate file names tried in order (versioned soname first), the
// symbols that must resolve and the symbols that may be missing on older
// drivers. Ensure loads everything the first time it is called and caches
// the outcome, success or failure, for the life of the Registry. An optional
// Init hook runs once after loading under its own lock; its failure is
// sticky as well.
//
// Absence and breakage are distinct: a library that cannot be opened yields
// an error matching ErrNotLoaded, while a library that opens but lacks a
// required symbol yields a *SymbolError.
//
// The Loader interface keeps real dlopen out of tests; NewLoader returns the
// purego-backed implementation.
package dylib
