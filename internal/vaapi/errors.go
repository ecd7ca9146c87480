package vaapi

import (
	"errors"
	"fmt"
)

var (
	// ErrEnumerateDevices marks a DRM directory that exists but cannot be read.
	ErrEnumerateDevices = errors.New("enumerate drm devices")
	// ErrNoDisplay marks a render node vaGetDisplayDRM rejected.
	ErrNoDisplay = errors.New("no va display")
	// ErrConversion marks a driver value that does not fit its Go type.
	ErrConversion = errors.New("value conversion failed")
)

// StatusError reports a libva call that returned a failure status. Message
// carries vaErrorStr text when the library exports it.
type StatusError struct {
	Op      string
	Code    int32
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

// OpenError reports a render node that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }

func (e *OpenError) Unwrap() error { return e.Err }

// DeviceError reports a display that initialized but failed while its
// profiles were probed. Vendor is the driver's vendor string.
type DeviceError struct {
	Path   string
	Vendor string
	Err    error
}

func (e *DeviceError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *DeviceError) Unwrap() error { return e.Err }
