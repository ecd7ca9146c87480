package testsupport

import (
	"sync"

	"hwscan/internal/vaapi"
)

// FakeVADisplay scripts the answers of one render node.
type FakeVADisplay struct {
	VendorString string
	Major, Minor int
	Profiles     []vaapi.Profile
	Entrypoints  map[vaapi.Profile][]vaapi.Entrypoint
	// Sizes holds width and height per profile and entrypoint. Missing
	// entries report zero, as libva does for unsupported attributes.
	Sizes      map[FakeVAConfig][2]uint32
	ProfileErr error
}

// FakeVAConfig keys FakeVADisplay.Sizes.
type FakeVAConfig struct {
	Profile    vaapi.Profile
	Entrypoint vaapi.Entrypoint
}

// FakeVaapi implements vaapi.API over scripted displays keyed by path.
type FakeVaapi struct {
	AvailableErr error
	OpenErr      map[string]error
	Displays     map[string]*FakeVADisplay

	mu     sync.Mutex
	opened []string
	closed int
}

// NewFakeVaapi returns a fake with no displays.
func NewFakeVaapi() *FakeVaapi {
	return &FakeVaapi{
		OpenErr:  make(map[string]error),
		Displays: make(map[string]*FakeVADisplay),
	}
}

func (f *FakeVaapi) Available() error { return f.AvailableErr }

func (f *FakeVaapi) OpenDisplay(path string) (vaapi.Display, error) {
	if err, ok := f.OpenErr[path]; ok {
		return nil, &vaapi.OpenError{Path: path, Err: err}
	}
	d, ok := f.Displays[path]
	if !ok {
		return nil, &vaapi.OpenError{Path: path, Err: vaapi.ErrNoDisplay}
	}
	f.mu.Lock()
	f.opened = append(f.opened, path)
	f.mu.Unlock()
	return &fakeVADisplay{driver: f, script: d}, nil
}

// Opened lists the paths opened so far in order.
func (f *FakeVaapi) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

// Closed counts closed displays.
func (f *FakeVaapi) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeVADisplay struct {
	driver *FakeVaapi
	script *FakeVADisplay
	closed bool
}

func (d *fakeVADisplay) Vendor() string { return d.script.VendorString }

func (d *fakeVADisplay) Version() (int, int) { return d.script.Major, d.script.Minor }

func (d *fakeVADisplay) Profiles() ([]vaapi.Profile, error) {
	if d.script.ProfileErr != nil {
		return nil, d.script.ProfileErr
	}
	return append([]vaapi.Profile(nil), d.script.Profiles...), nil
}

func (d *fakeVADisplay) Entrypoints(p vaapi.Profile) ([]vaapi.Entrypoint, error) {
	return append([]vaapi.Entrypoint(nil), d.script.Entrypoints[p]...), nil
}

func (d *fakeVADisplay) MaxPictureSize(p vaapi.Profile, e vaapi.Entrypoint) (uint32, uint32, error) {
	size := d.script.Sizes[FakeVAConfig{Profile: p, Entrypoint: e}]
	return size[0], size[1], nil
}

func (d *fakeVADisplay) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.driver.mu.Lock()
	d.driver.closed++
	d.driver.mu.Unlock()
	return nil
}
