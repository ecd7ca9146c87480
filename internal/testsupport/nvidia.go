package testsupport

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"hwscan/internal/nvidia"
)

// FakeCUDADevice describes one GPU served by FakeNvidia.
type FakeCUDADevice struct {
	Name string
	// UUID of uuid.Nil simulates a driver without cuDeviceGetUuid.
	UUID    uuid.UUID
	Decode  map[nvidia.DecodeQuery]nvidia.DecoderCaps
	Encoder FakeEncoder
}

// FakeEncoder scripts the NVENC answers for one device.
type FakeEncoder struct {
	Codecs   []uuid.UUID
	Profiles map[uuid.UUID][]uuid.UUID
	Caps     map[uuid.UUID]map[nvidia.EncodeCap]int32
}

// FakeNvidiaStats counts driver calls made against a FakeNvidia.
type FakeNvidiaStats struct {
	Created        int
	Destroyed      int
	DoubleDestroys int
	Pushes         int
	Pops           int
	DecodeCalls    int
	SessionsOpened int
	SessionsClosed int
	// Current is the depth of the fake thread-current context stack.
	Current int
}

// FakeNvidia implements nvidia.API in memory. Every call happens on the
// test goroutine so a single context stack stands in for the thread's.
type FakeNvidia struct {
	AvailableErr   error
	CountErr       error
	PushErr        error
	DecodeErr      error
	OpenEncoderErr error
	// PanicOnDecode makes the first DecoderCaps call panic with this value.
	PanicOnDecode any
	Devices       []FakeCUDADevice

	mu        sync.Mutex
	next      nvidia.Handle
	owners    map[nvidia.Handle]int
	destroyed map[nvidia.Handle]int
	stack     []nvidia.Handle
	stats     FakeNvidiaStats
}

// NewFakeNvidia returns a driver exposing devices.
func NewFakeNvidia(devices ...FakeCUDADevice) *FakeNvidia {
	return &FakeNvidia{
		Devices:   devices,
		next:      0x1000,
		owners:    make(map[nvidia.Handle]int),
		destroyed: make(map[nvidia.Handle]int),
	}
}

// Stats returns a snapshot of the call counters.
func (f *FakeNvidia) Stats() FakeNvidiaStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := f.stats
	stats.Current = len(f.stack)
	return stats
}

func (f *FakeNvidia) Available() error { return f.AvailableErr }

func (f *FakeNvidia) DeviceCount() (int, error) {
	if f.CountErr != nil {
		return 0, f.CountErr
	}
	return len(f.Devices), nil
}

func (f *FakeNvidia) Device(ordinal int) (nvidia.Device, error) {
	if ordinal < 0 || ordinal >= len(f.Devices) {
		return 0, &nvidia.StatusError{API: "cuda", Op: "cuDeviceGet", Code: 101}
	}
	return nvidia.Device(ordinal), nil
}

func (f *FakeNvidia) DeviceName(dev nvidia.Device) (string, error) {
	return f.Devices[dev].Name, nil
}

func (f *FakeNvidia) DeviceUUID(dev nvidia.Device) (uuid.UUID, bool, error) {
	id := f.Devices[dev].UUID
	return id, id != uuid.Nil, nil
}

func (f *FakeNvidia) CtxCreate(dev nvidia.Device) (nvidia.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next += 0x10
	handle := f.next
	f.owners[handle] = int(dev)
	f.stack = append(f.stack, handle)
	f.stats.Created++
	return handle, nil
}

func (f *FakeNvidia) CtxDestroy(ctx nvidia.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed[ctx]++
	if f.destroyed[ctx] > 1 {
		f.stats.DoubleDestroys++
		return &nvidia.StatusError{API: "cuda", Op: "cuCtxDestroy", Code: 201}
	}
	f.stats.Destroyed++
	for i := len(f.stack) - 1; i >= 0; i-- {
		if f.stack[i] == ctx {
			f.stack = append(f.stack[:i], f.stack[i+1:]...)
		}
	}
	return nil
}

func (f *FakeNvidia) CtxPush(ctx nvidia.Handle) error {
	if f.PushErr != nil {
		return f.PushErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats.Pushes++
	f.stack = append(f.stack, ctx)
	return nil
}

func (f *FakeNvidia) CtxPop() (nvidia.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stack) == 0 {
		return 0, &nvidia.StatusError{API: "cuda", Op: "cuCtxPopCurrent", Code: 201}
	}
	f.stats.Pops++
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return top, nil
}

func (f *FakeNvidia) DecoderCaps(q nvidia.DecodeQuery) (nvidia.DecoderCaps, error) {
	f.mu.Lock()
	f.stats.DecodeCalls++
	if len(f.stack) == 0 {
		f.mu.Unlock()
		return nvidia.DecoderCaps{}, &nvidia.StatusError{API: "cuda", Op: "cuvidGetDecoderCaps", Code: 201}
	}
	owner := f.owners[f.stack[len(f.stack)-1]]
	panicValue := f.PanicOnDecode
	f.PanicOnDecode = nil
	f.mu.Unlock()

	if panicValue != nil {
		panic(panicValue)
	}
	if f.DecodeErr != nil {
		return nvidia.DecoderCaps{}, f.DecodeErr
	}
	return f.Devices[owner].Decode[q], nil
}

func (f *FakeNvidia) OpenEncoder(ctx nvidia.Handle) (nvidia.EncoderSession, error) {
	if f.OpenEncoderErr != nil {
		return nil, f.OpenEncoderErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[ctx]
	if !ok || f.destroyed[ctx] > 0 {
		return nil, &nvidia.StatusError{API: "nvenc", Op: "nvEncOpenEncodeSessionEx", Code: 4}
	}
	f.stats.SessionsOpened++
	return &fakeSession{driver: f, encoder: f.Devices[owner].Encoder}, nil
}

type fakeSession struct {
	driver  *FakeNvidia
	encoder FakeEncoder
	closed  bool
}

func (s *fakeSession) CodecGUIDs() ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), s.encoder.Codecs...), nil
}

func (s *fakeSession) ProfileGUIDs(codec uuid.UUID) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), s.encoder.Profiles[codec]...), nil
}

func (s *fakeSession) Cap(codec uuid.UUID, c nvidia.EncodeCap) (int32, error) {
	caps, ok := s.encoder.Caps[codec]
	if !ok {
		return 0, fmt.Errorf("no caps scripted for %s", codec)
	}
	return caps[c], nil
}

func (s *fakeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.driver.mu.Lock()
	s.driver.stats.SessionsClosed++
	s.driver.mu.Unlock()
	return nil
}
