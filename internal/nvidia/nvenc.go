package nvidia

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/google/uuid"
)

const (
	nvencAPIMajor   = 7
	nvencAPIMinor   = 0
	nvencAPIVersion = nvencAPIMajor | nvencAPIMinor<<24

	nvencDeviceTypeCUDA = 1
)

func nvencStructVersion(v uint32) uint32 {
	return nvencAPIVersion | v<<16 | 0x7<<28
}

// Slots in NV_ENCODE_API_FUNCTION_LIST, counted from the first function
// pointer.
const (
	slotGetEncodeGUIDCount        = 1
	slotGetEncodeProfileGUIDCount = 2
	slotGetEncodeProfileGUIDs     = 3
	slotGetEncodeGUIDs            = 4
	slotGetEncodeCaps             = 7
	slotDestroyEncoder            = 27
	slotOpenEncodeSessionEx       = 29

	functionListSlots = 318
)

// nvencFunctionList mirrors NV_ENCODE_API_FUNCTION_LIST.
type nvencFunctionList struct {
	version  uint32
	reserved uint32
	slots    [functionListSlots]uintptr
}

// openSessionParams mirrors NV_ENC_OPEN_ENCODE_SESSION_EX_PARAMS.
type openSessionParams struct {
	version    uint32
	deviceType uint32
	device     uintptr
	reserved   uintptr
	apiVersion uint32
	reserved1  [253]uint32
	reserved2  [64]uintptr
}

// capsParam mirrors NV_ENC_CAPS_PARAM.
type capsParam struct {
	version     uint32
	capsToQuery uint32
	reserved    [62]uint32
}

// nvencSession calls the function table of one open encoder. GUIDs travel
// by value as two integer words.
type nvencSession struct {
	encoder uintptr

	getEncodeGUIDCount  func(enc uintptr, count *uint32) int32
	getEncodeGUIDs      func(enc uintptr, guids *GUID, size uint32, count *uint32) int32
	getProfileGUIDCount func(enc uintptr, lo, hi uint64, count *uint32) int32
	getProfileGUIDs     func(enc uintptr, lo, hi uint64, guids *GUID, size uint32, count *uint32) int32
	getEncodeCaps       func(enc uintptr, lo, hi uint64, params *capsParam, value *int32) int32
	destroyEncoder      func(enc uintptr) int32

	closeOnce sync.Once
	closeErr  error
}

func openEncoder(createInstance func(*nvencFunctionList) int32, ctx Handle) (EncoderSession, error) {
	list := &nvencFunctionList{version: nvencStructVersion(2)}
	if err := nvencStatus("NvEncodeAPICreateInstance", createInstance(list)); err != nil {
		return nil, err
	}

	s := &nvencSession{}
	var openSessionEx func(params *openSessionParams, encoder *uintptr) int32
	bindings := []struct {
		slot int
		name string
		fn   any
	}{
		{slotOpenEncodeSessionEx, "nvEncOpenEncodeSessionEx", &openSessionEx},
		{slotDestroyEncoder, "nvEncDestroyEncoder", &s.destroyEncoder},
		{slotGetEncodeGUIDCount, "nvEncGetEncodeGUIDCount", &s.getEncodeGUIDCount},
		{slotGetEncodeGUIDs, "nvEncGetEncodeGUIDs", &s.getEncodeGUIDs},
		{slotGetEncodeProfileGUIDCount, "nvEncGetEncodeProfileGUIDCount", &s.getProfileGUIDCount},
		{slotGetEncodeProfileGUIDs, "nvEncGetEncodeProfileGUIDs", &s.getProfileGUIDs},
		{slotGetEncodeCaps, "nvEncGetEncodeCaps", &s.getEncodeCaps},
	}
	for _, b := range bindings {
		addr := list.slots[b.slot]
		if addr == 0 {
			return nil, fmt.Errorf("%s: %w", b.name, ErrFunctionUnavailable)
		}
		purego.RegisterFunc(b.fn, addr)
	}

	params := &openSessionParams{
		version:    nvencStructVersion(1),
		deviceType: nvencDeviceTypeCUDA,
		device:     uintptr(ctx),
		apiVersion: nvencAPIVersion,
	}
	status := openSessionEx(params, &s.encoder)
	if err := nvencStatus("nvEncOpenEncodeSessionEx", status); err != nil {
		// The encoder handle must be destroyed even when the open fails.
		if s.encoder != 0 {
			s.destroyEncoder(s.encoder)
		}
		return nil, err
	}
	return s, nil
}

func (s *nvencSession) CodecGUIDs() ([]uuid.UUID, error) {
	var count uint32
	if err := nvencStatus("nvEncGetEncodeGUIDCount", s.getEncodeGUIDCount(s.encoder, &count)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	guids := make([]GUID, count)
	var written uint32
	if err := nvencStatus("nvEncGetEncodeGUIDs", s.getEncodeGUIDs(s.encoder, &guids[0], count, &written)); err != nil {
		return nil, err
	}
	return toUUIDs(guids, written), nil
}

func (s *nvencSession) ProfileGUIDs(codec uuid.UUID) ([]uuid.UUID, error) {
	lo, hi := GUIDFromUUID(codec).words()
	var count uint32
	if err := nvencStatus("nvEncGetEncodeProfileGUIDCount", s.getProfileGUIDCount(s.encoder, lo, hi, &count)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	guids := make([]GUID, count)
	var written uint32
	if err := nvencStatus("nvEncGetEncodeProfileGUIDs", s.getProfileGUIDs(s.encoder, lo, hi, &guids[0], count, &written)); err != nil {
		return nil, err
	}
	return toUUIDs(guids, written), nil
}

func (s *nvencSession) Cap(codec uuid.UUID, c EncodeCap) (int32, error) {
	lo, hi := GUIDFromUUID(codec).words()
	params := &capsParam{version: nvencStructVersion(1), capsToQuery: uint32(c)}
	var value int32
	if err := nvencStatus("nvEncGetEncodeCaps", s.getEncodeCaps(s.encoder, lo, hi, params, &value)); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *nvencSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = nvencStatus("nvEncDestroyEncoder", s.destroyEncoder(s.encoder))
		s.encoder = 0
	})
	return s.closeErr
}

func toUUIDs(guids []GUID, written uint32) []uuid.UUID {
	if int(written) < len(guids) {
		guids = guids[:written]
	}
	out := make([]uuid.UUID, 0, len(guids))
	for _, g := range guids {
		out = append(out, UUIDFromGUID(g))
	}
	return out
}
