package nvidia

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// GUID mirrors the NVENC GUID struct. Data1..Data3 are native-endian
// integers; Data4 is raw bytes.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// UUIDFromGUID converts to the canonical big-endian form.
func UUIDFromGUID(g GUID) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:], g.Data4[:])
	return u
}

// GUIDFromUUID is the inverse of UUIDFromGUID.
func GUIDFromUUID(u uuid.UUID) GUID {
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:])
	return g
}

// words splits the GUID into the two integer registers it occupies when
// passed by value on amd64 and arm64.
func (g GUID) words() (lo, hi uint64) {
	lo = uint64(g.Data1) | uint64(g.Data2)<<32 | uint64(g.Data3)<<48
	hi = binary.LittleEndian.Uint64(g.Data4[:])
	return lo, hi
}

// data1 returns the leading 32-bit field of a canonical identifier.
func data1(u uuid.UUID) uint32 {
	return binary.BigEndian.Uint32(u[0:4])
}
