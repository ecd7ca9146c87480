package capability

import (
	"strconv"

	"github.com/google/uuid"
)

// Device is one physical device as seen through one backend. Fields are
// fixed at construction; accessors return copies.
type Device struct {
	driver  Driver
	ordinal int
	path    string
	name    string
	uuid    uuid.UUID
	codecs  []CodecDetails
}

// NewNvidiaDevice builds a device identified by its CUDA ordinal. id is
// uuid.Nil when the driver cannot report one.
func NewNvidiaDevice(ordinal int, name string, id uuid.UUID, codecs []CodecDetails) Device {
	return Device{
		driver:  DriverNvidia,
		ordinal: ordinal,
		name:    name,
		uuid:    id,
		codecs:  cloneCodecs(codecs),
	}
}

// NewVaapiDevice builds a device identified by its DRM node path. name is
// the driver vendor string and may be empty.
func NewVaapiDevice(path, name string, codecs []CodecDetails) Device {
	return Device{
		driver: DriverVaapi,
		path:   path,
		name:   name,
		codecs: cloneCodecs(codecs),
	}
}

func (d Device) Driver() Driver { return d.driver }

// Ordinal is meaningful for NVIDIA devices only.
func (d Device) Ordinal() int { return d.ordinal }

// Path is meaningful for VA-API devices only.
func (d Device) Path() string { return d.path }

func (d Device) Name() string { return d.name }

// UUID is uuid.Nil for VA-API devices and for NVIDIA drivers without
// cuDeviceGetUuid.
func (d Device) UUID() uuid.UUID { return d.uuid }

// Codecs returns a copy of the device's codec records.
func (d Device) Codecs() []CodecDetails { return cloneCodecs(d.codecs) }

// Codec looks up the record for one codec.
func (d Device) Codec(codec Codec) (CodecDetails, bool) {
	for _, c := range d.codecs {
		if c.Codec == codec {
			return c.clone(), true
		}
	}
	return CodecDetails{}, false
}

// Label is a short human identifier: the ordinal for NVIDIA, the node path
// for VA-API.
func (d Device) Label() string {
	if d.driver == DriverNvidia {
		return "cuda:" + strconv.Itoa(d.ordinal)
	}
	return d.path
}
