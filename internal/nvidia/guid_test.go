package nvidia

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/google/uuid"

	"hwscan/internal/capability"
)

func TestGUIDRoundTrip(t *testing.T) {
	ids := []uuid.UUID{
		guidCodecH264,
		guidCodecHEVC,
		guidCodecAV1,
		uuid.Nil,
		uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
	}
	for _, id := range ids {
		if got := UUIDFromGUID(GUIDFromUUID(id)); got != id {
			t.Fatalf("round trip of %s produced %s", id, got)
		}
	}
	g := GUID{Data1: 0x6bc82762, Data2: 0x4e63, Data3: 0x4ca4, Data4: [8]byte{0xaa, 0x85, 0x1e, 0x50, 0xf3, 0x21, 0xf6, 0xbf}}
	if GUIDFromUUID(UUIDFromGUID(g)) != g {
		t.Fatalf("inverse round trip changed %+v", g)
	}
}

func TestGUIDFieldOrder(t *testing.T) {
	g := GUIDFromUUID(guidCodecH264)
	want := GUID{Data1: 0x6bc82762, Data2: 0x4e63, Data3: 0x4ca4, Data4: [8]byte{0xaa, 0x85, 0x1e, 0x50, 0xf3, 0x21, 0xf6, 0xbf}}
	if g != want {
		t.Fatalf("expected %+v, got %+v", want, g)
	}
	if UUIDFromGUID(want).String() != "6bc82762-4e63-4ca4-aa85-1e50f321f6bf" {
		t.Fatalf("unexpected canonical form %s", UUIDFromGUID(want))
	}
}

func TestGUIDWordsMatchMemoryLayout(t *testing.T) {
	if unsafe.Sizeof(GUID{}) != 16 {
		t.Fatalf("GUID must be 16 bytes, got %d", unsafe.Sizeof(GUID{}))
	}
	if binary.NativeEndian.Uint16([]byte{1, 0}) != 1 {
		t.Skip("register split assumes a little-endian host")
	}
	g := GUIDFromUUID(guidCodecHEVC)
	raw := (*[16]byte)(unsafe.Pointer(&g))
	lo, hi := g.words()
	if lo != binary.LittleEndian.Uint64(raw[0:8]) || hi != binary.LittleEndian.Uint64(raw[8:16]) {
		t.Fatalf("words %#x %#x do not match memory % x", lo, hi, raw[:])
	}
}

func TestLookupEncodeProfile(t *testing.T) {
	profile, ok, quiet := lookupEncodeProfile(uuid.MustParse("fa4d2b6c-3a5b-411a-8018-0a3f5e3c9be5"))
	if !ok || quiet || profile != capability.ProfileMain10 {
		t.Fatalf("expected hevc main10, got %v ok=%v quiet=%v", profile, ok, quiet)
	}
	_, ok, quiet = lookupEncodeProfile(uuid.MustParse("bfd6f8e7-233c-4341-8b3e-4818523803f4"))
	if ok || !quiet {
		t.Fatalf("expected autoselect to be dropped quietly, ok=%v quiet=%v", ok, quiet)
	}
	_, ok, quiet = lookupEncodeProfile(uuid.MustParse("11111111-2222-3333-4444-555555555555"))
	if ok || quiet {
		t.Fatalf("expected unknown profile to be reported, ok=%v quiet=%v", ok, quiet)
	}
	if _, ok := lookupEncodeCodec(uuid.Nil); ok {
		t.Fatal("nil GUID must not map to a codec")
	}
}
