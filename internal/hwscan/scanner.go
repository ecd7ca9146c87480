package hwscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"hwscan/internal/capability"
	"hwscan/internal/dylib"
	"hwscan/internal/logging"
	"hwscan/internal/nvidia"
	"hwscan/internal/vaapi"
)

// The real driver bindings are shared by every Scanner in the process so
// each library is opened, and cuInit run, at most once.
var (
	defaultNvidia = sync.OnceValue(func() nvidia.API { return nvidia.NewLibrary(dylib.NewLoader()) })
	defaultVaapi  = sync.OnceValue(func() vaapi.API { return vaapi.NewLibrary(dylib.NewLoader()) })
)

// Scanner probes the installed hardware. It holds no results between scans.
type Scanner struct {
	nvidia       nvidia.API
	vaapi        vaapi.API
	enableNvidia bool
	enableVaapi  bool
	parallel     bool
	driDir       string
	logger       *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithNvidia replaces the NVIDIA driver binding.
func WithNvidia(api nvidia.API) Option {
	return func(s *Scanner) { s.nvidia = api }
}

// WithVaapi replaces the VA-API driver binding.
func WithVaapi(api vaapi.API) Option {
	return func(s *Scanner) { s.vaapi = api }
}

// WithVendors enables or disables each backend. A disabled NVIDIA backend
// counts as not having run, so no VA-API device is deduplicated against it.
func WithVendors(nvidia, vaapi bool) Option {
	return func(s *Scanner) {
		s.enableNvidia = nvidia
		s.enableVaapi = vaapi
	}
}

// WithParallel runs the two vendor scans concurrently.
func WithParallel(parallel bool) Option {
	return func(s *Scanner) { s.parallel = parallel }
}

// WithDRIDir points render node enumeration at another directory.
func WithDRIDir(dir string) Option {
	return func(s *Scanner) { s.driDir = dir }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New returns a Scanner using the system driver libraries unless overridden.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		enableNvidia: true,
		enableVaapi:  true,
		driDir:       vaapi.DefaultDRIDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.nvidia == nil {
		s.nvidia = defaultNvidia()
	}
	if s.vaapi == nil {
		s.vaapi = defaultVaapi()
	}
	s.logger = logging.NewComponentLogger(s.logger, "hwscan")
	return s
}

type vendorResult struct {
	devices []capability.Device
	ran     bool

	// deferred holds VA-API probe failures whose outcome depends on
	// whether the NVIDIA scan ran.
	deferred []*vaapi.DeviceError
}

// Scan probes every enabled backend and returns a fresh report owned by the
// caller. Any panic below this call is returned as *CriticalFault.
func (s *Scanner) Scan(ctx context.Context) (report *capability.Report, err error) {
	if _, ok := logging.ScanIDFromContext(ctx); !ok {
		ctx = logging.WithScanID(ctx)
	}
	logger := logging.WithContext(ctx, s.logger)

	defer func() {
		if fault := recoverFault(recover()); fault != nil {
			report, err = nil, fault
		}
		if err == nil {
			return
		}
		attrs := []logging.Attr{
			logging.Error(err),
			logging.String("code", CodeOf(err).String()),
			logging.String(logging.FieldErrorHint, "run hwscan libs and hwscan doctor to check the driver install"),
		}
		var fault *CriticalFault
		if errors.As(err, &fault) {
			attrs = append(attrs, logging.String("stack", string(fault.Stack)))
		}
		logging.ErrorWithContext(logger, "hardware scan failed", "scan_failed", attrs...)
	}()

	started := time.Now()
	logger.Debug("hardware scan started",
		logging.String(logging.FieldEventType, "scan_start"),
		logging.Bool("nvidia", s.enableNvidia),
		logging.Bool("vaapi", s.enableVaapi),
		logging.Bool("parallel", s.parallel),
	)

	var nv, va vendorResult
	if s.parallel {
		nv, va, err = s.scanParallel(ctx, logger)
	} else {
		nv, va, err = s.scanSequential(ctx, logger)
	}
	if err != nil {
		return nil, err
	}

	devices, err := mergeDevices(nv, va)
	if err != nil {
		return nil, err
	}
	logger.Info("hardware scan completed",
		logging.String(logging.FieldEventType, "scan_complete"),
		logging.Int("nvidia_devices", len(nv.devices)),
		logging.Int("vaapi_devices", len(va.devices)),
		logging.Int("devices", len(devices)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return capability.NewReport(devices), nil
}

func (s *Scanner) scanSequential(ctx context.Context, logger *slog.Logger) (nv, va vendorResult, err error) {
	if nv, err = s.scanNvidia(ctx, logger); err != nil {
		return nv, va, err
	}
	var skip func(string) bool
	if nv.ran {
		skip = IsNvdecVendor
	}
	va, err = s.scanVaapi(ctx, vaapi.Options{Skip: skip}, logger)
	return nv, va, err
}

// scanParallel cannot know yet whether NVIDIA will run, so NVDEC displays
// are probed and their failures deferred to mergeDevices.
func (s *Scanner) scanParallel(ctx context.Context, logger *slog.Logger) (nv, va vendorResult, err error) {
	var opts vaapi.Options
	if s.enableNvidia {
		opts.Defer = IsNvdecVendor
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return guard(func() (err error) {
			nv, err = s.scanNvidia(gctx, logger)
			return err
		})
	})
	g.Go(func() error {
		return guard(func() (err error) {
			va, err = s.scanVaapi(gctx, opts, logger)
			return err
		})
	})
	err = g.Wait()
	return nv, va, err
}

func (s *Scanner) scanNvidia(ctx context.Context, logger *slog.Logger) (vendorResult, error) {
	if !s.enableNvidia {
		logger.Debug("nvidia backend disabled", logging.String(logging.FieldDriver, "nvidia"))
		return vendorResult{}, nil
	}
	devices, err := nvidia.Scan(ctx, s.nvidia, logger)
	if errors.Is(err, dylib.ErrNotLoaded) {
		logger.Info("nvidia driver not installed",
			logging.String(logging.FieldEventType, "driver_absent"),
			logging.String(logging.FieldDriver, "nvidia"),
			logging.Error(err),
		)
		return vendorResult{}, nil
	}
	if err != nil {
		return vendorResult{}, fmt.Errorf("nvidia: %w", err)
	}
	return vendorResult{devices: devices, ran: true}, nil
}

func (s *Scanner) scanVaapi(ctx context.Context, opts vaapi.Options, logger *slog.Logger) (vendorResult, error) {
	if !s.enableVaapi {
		logger.Debug("vaapi backend disabled", logging.String(logging.FieldDriver, "vaapi"))
		return vendorResult{}, nil
	}
	opts.DRIDir = s.driDir
	devices, deferred, err := vaapi.Scan(ctx, s.vaapi, opts, logger)
	if errors.Is(err, dylib.ErrNotLoaded) {
		logger.Info("vaapi driver not installed",
			logging.String(logging.FieldEventType, "driver_absent"),
			logging.String(logging.FieldDriver, "vaapi"),
			logging.Error(err),
		)
		return vendorResult{}, nil
	}
	if err != nil {
		return vendorResult{}, fmt.Errorf("vaapi: %w", err)
	}
	return vendorResult{devices: devices, ran: true, deferred: deferred}, nil
}

// mergeDevices concatenates NVIDIA then VA-API devices. When the NVIDIA scan
// ran, VA-API devices backed by NVDEC are dropped along with any deferred
// probe failure. Otherwise the first deferred failure fails the scan.
func mergeDevices(nv, va vendorResult) ([]capability.Device, error) {
	if !nv.ran && len(va.deferred) > 0 {
		return nil, fmt.Errorf("vaapi: %w", va.deferred[0])
	}
	merged := make([]capability.Device, 0, len(nv.devices)+len(va.devices))
	merged = append(merged, nv.devices...)
	for _, d := range va.devices {
		if nv.ran && IsNvdecVendor(d.Name()) {
			continue
		}
		merged = append(merged, d)
	}
	return merged, nil
}

// IsNvdecVendor reports whether a VA-API vendor string names the NVDEC
// backend, ignoring case.
func IsNvdecVendor(vendor string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(vendor), "nvdec")
}

// guard runs fn and converts a panic into *CriticalFault. Vendor goroutines
// use it so a fault never escapes the errgroup.
func guard(fn func() error) (err error) {
	defer func() {
		if fault := recoverFault(recover()); fault != nil {
			err = fault
		}
	}()
	return fn()
}

func recoverFault(r any) *CriticalFault {
	if r == nil {
		return nil
	}
	return &CriticalFault{Value: r, Stack: debug.Stack()}
}
