package nvidia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hwscan/internal/capability"
	"hwscan/internal/logging"
)

// Scan probes every CUDA device. When the driver libraries are missing the
// returned error wraps dylib.ErrNotLoaded and no device is reported.
func Scan(ctx context.Context, api API, logger *slog.Logger) ([]capability.Device, error) {
	logger = logging.NewComponentLogger(logger, "nvidia")
	if err := api.Available(); err != nil {
		return nil, err
	}
	infos, err := enumerate(api)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	logger.Debug("cuda devices enumerated", logging.Int("count", len(infos)))

	devices := make([]capability.Device, 0, len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		devLogger := logger.With(logging.String(logging.FieldDevice, fmt.Sprintf("cuda:%d", info.ordinal)))
		codecs, err := probeDevice(api, info, devLogger)
		if err != nil {
			return nil, fmt.Errorf("device %d (%s): %w", info.ordinal, info.name, err)
		}
		devLogger.Debug("cuda device probed",
			logging.String("name", info.name),
			logging.Int("codecs", len(codecs)),
		)
		devices = append(devices, capability.NewNvidiaDevice(info.ordinal, info.name, info.uuid, codecs))
	}
	return devices, nil
}

func probeDevice(api API, info deviceInfo, logger *slog.Logger) (codecs []capability.CodecDetails, err error) {
	guard, err := NewContext(api, info.handle)
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	defer func() {
		if closeErr := guard.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("destroy context: %w", closeErr))
		}
	}()

	var acc capability.Accumulator
	if err := probeDecode(guard, api, &acc); err != nil {
		return nil, fmt.Errorf("decode caps: %w", err)
	}
	if err := probeEncode(guard, api, &acc, logger); err != nil {
		return nil, fmt.Errorf("encode caps: %w", err)
	}
	return acc.CodecDetails(), nil
}
