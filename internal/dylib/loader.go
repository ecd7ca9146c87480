package dylib

// Library is an opened shared object.
type Library interface {
	// Lookup returns the address of symbol or an error if it is missing.
	Lookup(symbol string) (uintptr, error)
	Close() error
}

// Loader opens shared objects by file name using the platform search path.
type Loader interface {
	Open(name string) (Library, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (Library, error)

func (f LoaderFunc) Open(name string) (Library, error) { return f(name) }
