package nvidia

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/google/uuid"

	"hwscan/internal/capability"
	"hwscan/internal/dylib"
)

const (
	libCUDA    = "cuda"
	libNVCUVID = "nvcuvid"
	libNVENC   = "nvenc"
)

// Spec lists the shared objects and symbols the NVIDIA backend binds.
func Spec() dylib.Spec {
	return dylib.Spec{
		Vendor: "nvidia",
		Libraries: []dylib.LibrarySpec{
			{
				Key:   libCUDA,
				Names: []string{"libcuda.so.1", "libcuda.so"},
				Required: []string{
					"cuInit",
					"cuDeviceGetCount",
					"cuDeviceGet",
					"cuDeviceGetName",
					"cuCtxCreate_v2",
					"cuCtxDestroy_v2",
					"cuCtxPushCurrent_v2",
					"cuCtxPopCurrent_v2",
				},
				Optional: []string{"cuDeviceGetUuid"},
			},
			{
				Key:      libNVCUVID,
				Names:    []string{"libnvcuvid.so.1", "libnvcuvid.so"},
				Required: []string{"cuvidGetDecoderCaps"},
			},
			{
				Key:      libNVENC,
				Names:    []string{"libnvidia-encode.so.1", "libnvidia-encode.so"},
				Required: []string{"NvEncodeAPICreateInstance"},
			},
		},
		Init: cudaInit,
	}
}

func cudaInit(libs *dylib.Libs) error {
	addr, err := libs.Symbol(libCUDA, "cuInit")
	if err != nil {
		return err
	}
	var cuInit func(flags uint32) int32
	purego.RegisterFunc(&cuInit, addr)
	return cudaStatus("cuInit", cuInit(0))
}

// Library implements API over the installed NVIDIA driver.
type Library struct {
	registry *dylib.Registry

	bindOnce sync.Once
	fns      *cudaFuncs
	bindErr  error
}

// NewLibrary returns a Library that opens the driver through loader on
// first use.
func NewLibrary(loader dylib.Loader) *Library {
	return &Library{registry: dylib.NewRegistry(loader, Spec())}
}

type cudaFuncs struct {
	deviceGetCount func(count *int32) int32
	deviceGet      func(dev *int32, ordinal int32) int32
	deviceGetName  func(name *byte, length int32, dev int32) int32
	deviceGetUUID  func(id *[16]byte, dev int32) int32
	ctxCreate      func(ctx *uintptr, flags uint32, dev int32) int32
	ctxDestroy     func(ctx uintptr) int32
	ctxPush        func(ctx uintptr) int32
	ctxPop         func(ctx *uintptr) int32
	getDecoderCaps func(caps *cuvidDecodeCaps) int32
	createInstance func(list *nvencFunctionList) int32
	hasDeviceUUID  bool
}

// Available loads the driver libraries, runs cuInit and binds the call
// trampolines. Every outcome is cached.
func (l *Library) Available() error {
	_, err := l.funcs()
	return err
}

func (l *Library) funcs() (*cudaFuncs, error) {
	libs, err := l.registry.Ensure()
	if err != nil {
		return nil, err
	}
	l.bindOnce.Do(func() {
		l.fns, l.bindErr = bind(libs)
	})
	return l.fns, l.bindErr
}

func bind(libs *dylib.Libs) (*cudaFuncs, error) {
	fns := &cudaFuncs{}
	required := []struct {
		lib  string
		name string
		fn   any
	}{
		{libCUDA, "cuDeviceGetCount", &fns.deviceGetCount},
		{libCUDA, "cuDeviceGet", &fns.deviceGet},
		{libCUDA, "cuDeviceGetName", &fns.deviceGetName},
		{libCUDA, "cuCtxCreate_v2", &fns.ctxCreate},
		{libCUDA, "cuCtxDestroy_v2", &fns.ctxDestroy},
		{libCUDA, "cuCtxPushCurrent_v2", &fns.ctxPush},
		{libCUDA, "cuCtxPopCurrent_v2", &fns.ctxPop},
		{libNVCUVID, "cuvidGetDecoderCaps", &fns.getDecoderCaps},
		{libNVENC, "NvEncodeAPICreateInstance", &fns.createInstance},
	}
	for _, r := range required {
		addr, err := libs.Symbol(r.lib, r.name)
		if err != nil {
			return nil, err
		}
		purego.RegisterFunc(r.fn, addr)
	}
	if addr, ok := libs.OptionalSymbol(libCUDA, "cuDeviceGetUuid"); ok {
		purego.RegisterFunc(&fns.deviceGetUUID, addr)
		fns.hasDeviceUUID = true
	}
	return fns, nil
}

func (l *Library) DeviceCount() (int, error) {
	fns, err := l.funcs()
	if err != nil {
		return 0, err
	}
	var count int32
	if err := cudaStatus("cuDeviceGetCount", fns.deviceGetCount(&count)); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (l *Library) Device(ordinal int) (Device, error) {
	fns, err := l.funcs()
	if err != nil {
		return 0, err
	}
	var dev int32
	if err := cudaStatus("cuDeviceGet", fns.deviceGet(&dev, int32(ordinal))); err != nil {
		return 0, err
	}
	return Device(dev), nil
}

func (l *Library) DeviceName(dev Device) (string, error) {
	fns, err := l.funcs()
	if err != nil {
		return "", err
	}
	buf := make([]byte, 256)
	if err := cudaStatus("cuDeviceGetName", fns.deviceGetName(&buf[0], int32(len(buf)), int32(dev))); err != nil {
		return "", err
	}
	return cString(buf), nil
}

func (l *Library) DeviceUUID(dev Device) (uuid.UUID, bool, error) {
	fns, err := l.funcs()
	if err != nil {
		return uuid.Nil, false, err
	}
	if !fns.hasDeviceUUID {
		return uuid.Nil, false, nil
	}
	var raw [16]byte
	if err := cudaStatus("cuDeviceGetUuid", fns.deviceGetUUID(&raw, int32(dev))); err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.FromBytes(raw[:])
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("device uuid: %w: %v", ErrConversion, err)
	}
	return id, true, nil
}

func (l *Library) CtxCreate(dev Device) (Handle, error) {
	fns, err := l.funcs()
	if err != nil {
		return 0, err
	}
	var ctx uintptr
	if err := cudaStatus("cuCtxCreate", fns.ctxCreate(&ctx, 0, int32(dev))); err != nil {
		return 0, err
	}
	return Handle(ctx), nil
}

func (l *Library) CtxDestroy(ctx Handle) error {
	fns, err := l.funcs()
	if err != nil {
		return err
	}
	return cudaStatus("cuCtxDestroy", fns.ctxDestroy(uintptr(ctx)))
}

func (l *Library) CtxPush(ctx Handle) error {
	fns, err := l.funcs()
	if err != nil {
		return err
	}
	return cudaStatus("cuCtxPushCurrent", fns.ctxPush(uintptr(ctx)))
}

func (l *Library) CtxPop() (Handle, error) {
	fns, err := l.funcs()
	if err != nil {
		return 0, err
	}
	var ctx uintptr
	if err := cudaStatus("cuCtxPopCurrent", fns.ctxPop(&ctx)); err != nil {
		return 0, err
	}
	return Handle(ctx), nil
}

// cudaVideoCodec values.
var decodeCodecs = map[capability.Codec]uint32{
	capability.CodecMpeg1: 0,
	capability.CodecMpeg2: 1,
	capability.CodecMpeg4: 2,
	capability.CodecVc1:   3,
	capability.CodecH264:  4,
	capability.CodecHevc:  8,
	capability.CodecVp8:   9,
	capability.CodecVp9:   10,
	capability.CodecAv1:   11,
}

// cudaVideoChromaFormat values.
var decodeChromas = map[capability.Chroma]uint32{
	capability.ChromaMonochrome: 0,
	capability.ChromaYuv420:     1,
	capability.ChromaYuv422:     2,
	capability.ChromaYuv444:     3,
}

// cuvidDecodeCaps mirrors CUVIDDECODECAPS.
type cuvidDecodeCaps struct {
	codecType            uint32
	chromaFormat         uint32
	bitDepthMinus8       uint32
	reserved1            [3]uint32
	isSupported          uint8
	numNVDECs            uint8
	outputFormatMask     uint16
	maxWidth             uint32
	maxHeight            uint32
	maxMBCount           uint32
	minWidth             uint16
	minHeight            uint16
	isHistogramSupported uint8
	counterBitDepth      uint8
	maxHistogramBins     uint16
	reserved3            [10]uint32
}

func (l *Library) DecoderCaps(q DecodeQuery) (DecoderCaps, error) {
	fns, err := l.funcs()
	if err != nil {
		return DecoderCaps{}, err
	}
	codec, ok := decodeCodecs[q.Codec]
	if !ok {
		return DecoderCaps{}, fmt.Errorf("decode codec %v: %w", q.Codec, ErrConversion)
	}
	chroma, ok := decodeChromas[q.Chroma]
	if !ok {
		return DecoderCaps{}, fmt.Errorf("decode chroma %v: %w", q.Chroma, ErrConversion)
	}
	caps := cuvidDecodeCaps{
		codecType:      codec,
		chromaFormat:   chroma,
		bitDepthMinus8: uint32(q.Depth.Bits() - 8),
	}
	if err := cudaStatus("cuvidGetDecoderCaps", fns.getDecoderCaps(&caps)); err != nil {
		return DecoderCaps{}, err
	}
	return DecoderCaps{
		Supported: caps.isSupported != 0,
		MaxWidth:  caps.maxWidth,
		MaxHeight: caps.maxHeight,
	}, nil
}

func (l *Library) OpenEncoder(ctx Handle) (EncoderSession, error) {
	fns, err := l.funcs()
	if err != nil {
		return nil, err
	}
	return openEncoder(fns.createInstance, ctx)
}

// cString decodes a NUL-terminated buffer, replacing invalid UTF-8.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}
