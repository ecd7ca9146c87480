package nvidia

import (
	"github.com/google/uuid"

	"hwscan/internal/capability"
)

// Device is a CUDA device handle.
type Device int32

// Handle is a raw CUcontext.
type Handle uintptr

// DecodeQuery selects one cuvidGetDecoderCaps call.
type DecodeQuery struct {
	Codec  capability.Codec
	Chroma capability.Chroma
	Depth  capability.ColorDepth
}

// DecoderCaps is the part of CUVIDDECODECAPS the probe reads.
type DecoderCaps struct {
	Supported bool
	MaxWidth  uint32
	MaxHeight uint32
}

// EncodeCap is an NV_ENC_CAPS value.
type EncodeCap int32

const (
	CapNumMaxBFrames       EncodeCap = 0
	CapWidthMax            EncodeCap = 16
	CapHeightMax           EncodeCap = 17
	CapSupportYUV444Encode EncodeCap = 33
	CapSupport10BitEncode  EncodeCap = 39
)

// API is the driver surface the probes need. Library implements it over the
// real shared objects.
type API interface {
	// Available loads the libraries and runs cuInit once.
	Available() error
	DeviceCount() (int, error)
	Device(ordinal int) (Device, error)
	DeviceName(dev Device) (string, error)
	// DeviceUUID reports ok=false when the driver predates cuDeviceGetUuid.
	DeviceUUID(dev Device) (id uuid.UUID, ok bool, err error)

	// CtxCreate creates a context and makes it current on the calling thread.
	CtxCreate(dev Device) (Handle, error)
	CtxDestroy(ctx Handle) error
	CtxPush(ctx Handle) error
	CtxPop() (Handle, error)

	// DecoderCaps requires a current context.
	DecoderCaps(q DecodeQuery) (DecoderCaps, error)
	OpenEncoder(ctx Handle) (EncoderSession, error)
}

// EncoderSession is an open NVENC session.
type EncoderSession interface {
	CodecGUIDs() ([]uuid.UUID, error)
	ProfileGUIDs(codec uuid.UUID) ([]uuid.UUID, error)
	Cap(codec uuid.UUID, c EncodeCap) (int32, error)
	// Close destroys the encoder. Calling it twice is a no-op.
	Close() error
}
