package vaapi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	"hwscan/internal/dylib"
)

const (
	libVA    = "va"
	libVADRM = "va-drm"

	vaStatusSuccess        = 0
	vaAttribNotSupported   = 0x80000000
	attribMaxPictureWidth  = 18
	attribMaxPictureHeight = 19
)

// Spec lists the shared objects and symbols the VA-API backend binds.
func Spec() dylib.Spec {
	return dylib.Spec{
		Vendor: "vaapi",
		Libraries: []dylib.LibrarySpec{
			{
				Key:   libVA,
				Names: []string{"libva.so.2", "libva.so"},
				Required: []string{
					"vaInitialize",
					"vaTerminate",
					"vaQueryVendorString",
					"vaMaxNumProfiles",
					"vaMaxNumEntrypoints",
					"vaQueryConfigProfiles",
					"vaQueryConfigEntrypoints",
					"vaGetConfigAttributes",
				},
				Optional: []string{"vaErrorStr"},
			},
			{
				Key:      libVADRM,
				Names:    []string{"libva-drm.so.2", "libva-drm.so"},
				Required: []string{"vaGetDisplayDRM"},
			},
		},
	}
}

// Library implements API over the installed libva.
type Library struct {
	registry *dylib.Registry

	bindOnce sync.Once
	fns      *vaFuncs
	bindErr  error
}

// NewLibrary returns a Library that opens libva through loader on first use.
func NewLibrary(loader dylib.Loader) *Library {
	return &Library{registry: dylib.NewRegistry(loader, Spec())}
}

type vaFuncs struct {
	getDisplayDRM          func(fd int32) uintptr
	initialize             func(dpy uintptr, major, minor *int32) int32
	terminate              func(dpy uintptr) int32
	queryVendorString      func(dpy uintptr) string
	maxNumProfiles         func(dpy uintptr) int32
	maxNumEntrypoints      func(dpy uintptr) int32
	queryConfigProfiles    func(dpy uintptr, list *int32, num *int32) int32
	queryConfigEntrypoints func(dpy uintptr, profile int32, list *int32, num *int32) int32
	getConfigAttributes    func(dpy uintptr, profile, entrypoint int32, attribs *configAttrib, num int32) int32
	errorStr               func(status int32) string
}

// configAttrib mirrors VAConfigAttrib.
type configAttrib struct {
	attribType int32
	value      uint32
}

func (l *Library) Available() error {
	_, err := l.funcs()
	return err
}

func (l *Library) funcs() (*vaFuncs, error) {
	libs, err := l.registry.Ensure()
	if err != nil {
		return nil, err
	}
	l.bindOnce.Do(func() {
		l.fns, l.bindErr = bind(libs)
	})
	return l.fns, l.bindErr
}

func bind(libs *dylib.Libs) (*vaFuncs, error) {
	fns := &vaFuncs{}
	required := []struct {
		lib  string
		name string
		fn   any
	}{
		{libVADRM, "vaGetDisplayDRM", &fns.getDisplayDRM},
		{libVA, "vaInitialize", &fns.initialize},
		{libVA, "vaTerminate", &fns.terminate},
		{libVA, "vaQueryVendorString", &fns.queryVendorString},
		{libVA, "vaMaxNumProfiles", &fns.maxNumProfiles},
		{libVA, "vaMaxNumEntrypoints", &fns.maxNumEntrypoints},
		{libVA, "vaQueryConfigProfiles", &fns.queryConfigProfiles},
		{libVA, "vaQueryConfigEntrypoints", &fns.queryConfigEntrypoints},
		{libVA, "vaGetConfigAttributes", &fns.getConfigAttributes},
	}
	for _, r := range required {
		addr, err := libs.Symbol(r.lib, r.name)
		if err != nil {
			return nil, err
		}
		purego.RegisterFunc(r.fn, addr)
	}
	if addr, ok := libs.OptionalSymbol(libVA, "vaErrorStr"); ok {
		purego.RegisterFunc(&fns.errorStr, addr)
	}
	return fns, nil
}

func (f *vaFuncs) status(op string, code int32) error {
	if code == vaStatusSuccess {
		return nil
	}
	err := &StatusError{Op: op, Code: code}
	if f.errorStr != nil {
		err.Message = f.errorStr(code)
	}
	return err
}

// OpenDisplay opens path read-write and initializes a DRM display on it.
func (l *Library) OpenDisplay(path string) (Display, error) {
	fns, err := l.funcs()
	if err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	dpy := fns.getDisplayDRM(int32(fd))
	if dpy == 0 {
		_ = unix.Close(fd)
		return nil, &OpenError{Path: path, Err: ErrNoDisplay}
	}
	var major, minor int32
	if err := fns.status("vaInitialize", fns.initialize(dpy, &major, &minor)); err != nil {
		_ = unix.Close(fd)
		return nil, &OpenError{Path: path, Err: err}
	}
	return &display{
		fns:    fns,
		fd:     fd,
		dpy:    dpy,
		major:  int(major),
		minor:  int(minor),
		vendor: fns.queryVendorString(dpy),
	}, nil
}

type display struct {
	fns    *vaFuncs
	fd     int
	dpy    uintptr
	major  int
	minor  int
	vendor string

	closeOnce sync.Once
	closeErr  error
}

func (d *display) Vendor() string { return d.vendor }

func (d *display) Version() (int, int) { return d.major, d.minor }

func (d *display) Profiles() ([]Profile, error) {
	limit := d.fns.maxNumProfiles(d.dpy)
	if limit <= 0 {
		return nil, nil
	}
	list := make([]int32, limit)
	var num int32
	if err := d.fns.status("vaQueryConfigProfiles", d.fns.queryConfigProfiles(d.dpy, &list[0], &num)); err != nil {
		return nil, err
	}
	if num < 0 || num > limit {
		return nil, fmt.Errorf("vaQueryConfigProfiles returned %d of %d: %w", num, limit, ErrConversion)
	}
	profiles := make([]Profile, num)
	for i := range profiles {
		profiles[i] = Profile(list[i])
	}
	return profiles, nil
}

func (d *display) Entrypoints(p Profile) ([]Entrypoint, error) {
	limit := d.fns.maxNumEntrypoints(d.dpy)
	if limit <= 0 {
		return nil, nil
	}
	list := make([]int32, limit)
	var num int32
	if err := d.fns.status("vaQueryConfigEntrypoints", d.fns.queryConfigEntrypoints(d.dpy, int32(p), &list[0], &num)); err != nil {
		return nil, err
	}
	if num < 0 || num > limit {
		return nil, fmt.Errorf("vaQueryConfigEntrypoints returned %d of %d: %w", num, limit, ErrConversion)
	}
	entrypoints := make([]Entrypoint, num)
	for i := range entrypoints {
		entrypoints[i] = Entrypoint(list[i])
	}
	return entrypoints, nil
}

func (d *display) MaxPictureSize(p Profile, e Entrypoint) (uint32, uint32, error) {
	attribs := []configAttrib{
		{attribType: attribMaxPictureWidth},
		{attribType: attribMaxPictureHeight},
	}
	code := d.fns.getConfigAttributes(d.dpy, int32(p), int32(e), &attribs[0], int32(len(attribs)))
	if err := d.fns.status("vaGetConfigAttributes", code); err != nil {
		return 0, 0, err
	}
	return attribValue(attribs[0]), attribValue(attribs[1]), nil
}

func attribValue(a configAttrib) uint32 {
	if a.value == vaAttribNotSupported {
		return 0
	}
	return a.value
}

func (d *display) Close() error {
	d.closeOnce.Do(func() {
		termErr := d.fns.status("vaTerminate", d.fns.terminate(d.dpy))
		closeErr := unix.Close(d.fd)
		d.closeErr = errors.Join(termErr, closeErr)
	})
	return d.closeErr
}
