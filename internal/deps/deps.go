package deps

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"hwscan/internal/dylib"
)

// Status reports whether one vendor library resolves on this host.
type Status struct {
	Vendor     string
	Library    string
	Candidates []string
	// Resolved is the candidate name that opened, empty when none did.
	Resolved string
	// Missing lists required symbols absent from the resolved library.
	Missing []string
	// Optional lists optional symbols the resolved library lacks.
	Optional  []string
	Available bool
	Detail    string
}

// CheckLibraries opens every library named by specs, checks its symbols and
// closes it again. No vendor initialization runs.
func CheckLibraries(loader dylib.Loader, specs []dylib.Spec) []Status {
	var results []Status
	for _, spec := range specs {
		for _, lib := range spec.Libraries {
			results = append(results, checkLibrary(loader, spec.Vendor, lib))
		}
	}
	return results
}

func checkLibrary(loader dylib.Loader, vendor string, spec dylib.LibrarySpec) Status {
	status := Status{
		Vendor:     vendor,
		Library:    spec.Key,
		Candidates: slices.Clone(spec.Names),
	}
	handle, resolved, err := dylib.OpenFirst(loader, vendor, spec.Names)
	if err != nil {
		status.Detail = fmt.Sprintf("none of %s could be loaded", strings.Join(spec.Names, ", "))
		var loadErr *dylib.LoadError
		if errors.As(err, &loadErr) && loadErr.Err != nil {
			status.Detail += ": " + loadErr.Err.Error()
		}
		return status
	}
	defer handle.Close()
	status.Resolved = resolved

	for _, sym := range spec.Required {
		if _, err := handle.Lookup(sym); err != nil {
			status.Missing = append(status.Missing, sym)
		}
	}
	for _, sym := range spec.Optional {
		if _, err := handle.Lookup(sym); err != nil {
			status.Optional = append(status.Optional, sym)
		}
	}
	if len(status.Missing) > 0 {
		status.Detail = fmt.Sprintf("missing symbols: %s", strings.Join(status.Missing, ", "))
		return status
	}
	status.Available = true
	return status
}

// VendorAvailable reports whether every library of vendor resolved cleanly.
func VendorAvailable(statuses []Status, vendor string) bool {
	found := false
	for _, s := range statuses {
		if s.Vendor != vendor {
			continue
		}
		found = true
		if !s.Available {
			return false
		}
	}
	return found
}
