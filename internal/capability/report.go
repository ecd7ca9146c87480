package capability

import "sync"

// Report is the owned result of one scan. It is created fresh per scan and
// never persisted.
type Report struct {
	mu       sync.Mutex
	devices  []Device
	released bool
}

// NewReport takes ownership of devices in the given order.
func NewReport(devices []Device) *Report {
	return &Report{devices: devices}
}

// Devices returns the devices in report order. A released report has none.
func (r *Report) Devices() []Device {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	return append([]Device(nil), r.devices...)
}

// Len returns the number of devices still held.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// Release drops the device tree. Calling it more than once is harmless.
func (r *Report) Release() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = nil
	r.released = true
}

// Released reports whether Release has been called.
func (r *Report) Released() bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// ReportInfo is a read-only view of a Report shaped for rendering.
type ReportInfo struct {
	Devices []DeviceInfo `json:"devices" yaml:"devices"`
}

// DeviceInfo flattens a Device's identity for serialisation.
type DeviceInfo struct {
	Driver  Driver         `json:"driver" yaml:"driver"`
	Ordinal *int           `json:"ordinal,omitempty" yaml:"ordinal,omitempty"`
	Path    string         `json:"path,omitempty" yaml:"path,omitempty"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	UUID    string         `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Codecs  []CodecDetails `json:"codecs" yaml:"codecs"`
}

// Info builds the view. Info of a released report has no devices.
func (r *Report) Info() ReportInfo {
	devices := r.Devices()
	info := ReportInfo{Devices: make([]DeviceInfo, 0, len(devices))}
	for _, d := range devices {
		info.Devices = append(info.Devices, d.Info())
	}
	return info
}

// Info returns the serialisable view of one device.
func (d Device) Info() DeviceInfo {
	info := DeviceInfo{
		Driver: d.driver,
		Path:   d.path,
		Name:   d.name,
		Codecs: d.Codecs(),
	}
	if info.Codecs == nil {
		info.Codecs = []CodecDetails{}
	}
	for i := range info.Codecs {
		if info.Codecs[i].Decoding == nil {
			info.Codecs[i].Decoding = []DecodingSpec{}
		}
		if info.Codecs[i].Encoding == nil {
			info.Codecs[i].Encoding = []EncodingSpec{}
		}
	}
	if d.driver == DriverNvidia {
		ordinal := d.ordinal
		info.Ordinal = &ordinal
		info.UUID = d.uuid.String()
	}
	return info
}

// Filter keeps the devices of one driver. It returns a new report and leaves
// r untouched.
func (r *Report) Filter(driver Driver) *Report {
	var kept []Device
	for _, d := range r.Devices() {
		if d.driver == driver {
			kept = append(kept, d)
		}
	}
	return NewReport(kept)
}
