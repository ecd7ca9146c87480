package nvidia

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"hwscan/internal/capability"
	"hwscan/internal/logging"
)

// encodeCaps holds the per-codec NVENC capability values the probe reads.
type encodeCaps struct {
	maxWidth  uint32
	maxHeight uint32
	tenBit    bool
	bFrames   bool
	yuv444    bool
}

// probeEncode opens one NVENC session on the floating context and records
// an EncodingSpec set for every recognised codec and profile.
func probeEncode(guard *Context, api API, acc *capability.Accumulator, logger *slog.Logger) error {
	return guard.WithFloating(func(handle Handle) (err error) {
		session, err := api.OpenEncoder(handle)
		if err != nil {
			return err
		}
		if session == nil {
			return errNilSession
		}
		defer func() {
			if closeErr := session.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()

		codecGUIDs, err := session.CodecGUIDs()
		if err != nil {
			return err
		}
		for _, codecGUID := range codecGUIDs {
			codec, ok := lookupEncodeCodec(codecGUID)
			if !ok {
				logger.Info("nvenc codec not recognized",
					logging.String(logging.FieldEventType, "nvenc_codec_unknown"),
					logging.String("guid", codecGUID.String()),
				)
				continue
			}
			if err := probeEncodeCodec(session, codecGUID, codec, acc, logger); err != nil {
				return fmt.Errorf("%s: %w", codec, err)
			}
		}
		return nil
	})
}

func probeEncodeCodec(session EncoderSession, codecGUID uuid.UUID, codec capability.Codec, acc *capability.Accumulator, logger *slog.Logger) error {
	profileGUIDs, err := session.ProfileGUIDs(codecGUID)
	if err != nil {
		return err
	}
	caps, err := readEncodeCaps(session, codecGUID)
	if err != nil {
		return err
	}
	for _, profileGUID := range profileGUIDs {
		profile, ok, quiet := lookupEncodeProfile(profileGUID)
		if !ok {
			if !quiet {
				logger.Info("nvenc profile not recognized",
					logging.String(logging.FieldEventType, "nvenc_profile_unknown"),
					logging.String("codec", codec.String()),
					logging.String("guid", profileGUID.String()),
				)
			}
			continue
		}
		for _, spec := range synthesizeEncodingSpecs(profile, caps) {
			acc.AddEncoding(codec, spec)
		}
	}
	return nil
}

func readEncodeCaps(session EncoderSession, codecGUID uuid.UUID) (encodeCaps, error) {
	var caps encodeCaps
	width, err := session.Cap(codecGUID, CapWidthMax)
	if err != nil {
		return caps, err
	}
	if caps.maxWidth, err = toUint32("max width", width); err != nil {
		return caps, err
	}
	height, err := session.Cap(codecGUID, CapHeightMax)
	if err != nil {
		return caps, err
	}
	if caps.maxHeight, err = toUint32("max height", height); err != nil {
		return caps, err
	}
	tenBit, err := session.Cap(codecGUID, CapSupport10BitEncode)
	if err != nil {
		return caps, err
	}
	bFrames, err := session.Cap(codecGUID, CapNumMaxBFrames)
	if err != nil {
		return caps, err
	}
	yuv444, err := session.Cap(codecGUID, CapSupportYUV444Encode)
	if err != nil {
		return caps, err
	}
	caps.tenBit = tenBit != 0
	caps.bFrames = bFrames > 0
	caps.yuv444 = yuv444 != 0
	return caps, nil
}

// synthesizeEncodingSpecs expands one profile into specs. The 4:2:0 8-bit
// base is always present. 10-bit and 4:4:4 each add one variant on their
// own; together they add only the combined 10-bit 4:4:4 variant.
func synthesizeEncodingSpecs(profile capability.EncodeProfile, caps encodeCaps) []capability.EncodingSpec {
	spec := func(chroma capability.Chroma, depth capability.ColorDepth) capability.EncodingSpec {
		return capability.EncodingSpec{
			Chroma:           chroma,
			ColorDepth:       depth,
			Profile:          profile,
			MaxWidth:         caps.maxWidth,
			MaxHeight:        caps.maxHeight,
			BFramesSupported: capability.ThreeValueOf(caps.bFrames),
		}
	}
	specs := []capability.EncodingSpec{spec(capability.ChromaYuv420, capability.ColorDepth8)}
	switch {
	case caps.tenBit && caps.yuv444:
		specs = append(specs, spec(capability.ChromaYuv444, capability.ColorDepth10))
	case caps.tenBit:
		specs = append(specs, spec(capability.ChromaYuv420, capability.ColorDepth10))
	case caps.yuv444:
		specs = append(specs, spec(capability.ChromaYuv444, capability.ColorDepth8))
	}
	return specs
}

func toUint32(what string, v int32) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("%s %d: %w", what, v, ErrConversion)
	}
	return uint32(v), nil
}

// errNilSession guards API implementations that return neither a session
// nor an error.
var errNilSession = errors.New("nvenc returned no session")
