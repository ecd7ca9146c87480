package nvidia

import (
	"fmt"

	"github.com/google/uuid"
)

// deviceInfo is one enumerated CUDA device.
type deviceInfo struct {
	ordinal int
	handle  Device
	name    string
	uuid    uuid.UUID
}

// enumerate lists devices in ascending ordinal order. A driver without
// cuDeviceGetUuid yields uuid.Nil identifiers.
func enumerate(api API) ([]deviceInfo, error) {
	count, err := api.DeviceCount()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("device count %d: %w", count, ErrConversion)
	}
	devices := make([]deviceInfo, 0, count)
	for ordinal := range count {
		handle, err := api.Device(ordinal)
		if err != nil {
			return nil, err
		}
		name, err := api.DeviceName(handle)
		if err != nil {
			return nil, err
		}
		id, ok, err := api.DeviceUUID(handle)
		if err != nil {
			return nil, err
		}
		if !ok {
			id = uuid.Nil
		}
		devices = append(devices, deviceInfo{ordinal: ordinal, handle: handle, name: name, uuid: id})
	}
	return devices, nil
}
