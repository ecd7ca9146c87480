package vaapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hwscan/internal/capability"
	"hwscan/internal/logging"
)

// Options tunes a VA-API scan.
type Options struct {
	// DRIDir overrides DefaultDRIDir.
	DRIDir string
	// Skip, when set, drops a display by vendor string before probing it.
	Skip func(vendor string) bool
	// Defer, when set, keeps scanning past a failed probe of a display whose
	// vendor it matches. The failure is returned instead of aborting.
	Defer func(vendor string) bool
}

// Scan probes every render node. When libva is missing the returned error
// wraps dylib.ErrNotLoaded and no device is reported. Probe failures of
// displays matched by opts.Defer come back in deferred, in node order.
func Scan(ctx context.Context, api API, opts Options, logger *slog.Logger) (devices []capability.Device, deferred []*DeviceError, err error) {
	logger = logging.NewComponentLogger(logger, "vaapi")
	if err := api.Available(); err != nil {
		return nil, nil, err
	}
	paths, err := EnumerateRenderNodes(opts.DRIDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("render nodes enumerated", logging.Int("count", len(paths)))

	devices = make([]capability.Device, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		nodeLogger := logger.With(logging.String(logging.FieldDevice, path))
		device, ok, err := scanNode(api, path, opts.Skip, nodeLogger)
		var devErr *DeviceError
		if err != nil && opts.Defer != nil && errors.As(err, &devErr) && opts.Defer(devErr.Vendor) {
			nodeLogger.Debug("va display probe failure deferred",
				logging.String("vendor", devErr.Vendor),
				logging.Error(err),
			)
			deferred = append(deferred, devErr)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if ok {
			devices = append(devices, device)
		}
	}
	return devices, deferred, nil
}

func scanNode(api API, path string, skip func(string) bool, logger *slog.Logger) (device capability.Device, ok bool, err error) {
	display, err := api.OpenDisplay(path)
	if err != nil {
		return device, false, err
	}
	defer func() {
		if closeErr := display.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, closeErr))
		}
	}()

	major, minor := display.Version()
	vendor := display.Vendor()
	logger.Debug("va display initialized",
		logging.String("vendor", vendor),
		logging.String("va_version", fmt.Sprintf("%d.%d", major, minor)),
	)
	if skip != nil && skip(vendor) {
		logger.Debug("va display skipped", logging.String("vendor", vendor))
		return device, false, nil
	}
	codecs, err := probeDisplay(display)
	if err != nil {
		return device, false, &DeviceError{Path: path, Vendor: vendor, Err: err}
	}
	return capability.NewVaapiDevice(path, vendor, codecs), true, nil
}
