package vaapi

import (
	"fmt"
	"slices"

	"hwscan/internal/capability"
)

// probeDisplay walks the driver's profiles and records decode specs for the
// VLD entrypoint and encode specs for EncSlice. VA-API cannot report B-frame
// support, so encode specs carry Unknown.
func probeDisplay(display Display) ([]capability.CodecDetails, error) {
	profiles, err := display.Profiles()
	if err != nil {
		return nil, err
	}
	var acc capability.Accumulator
	for _, profile := range profiles {
		tuples, ok := lookupProfile(profile)
		if !ok {
			continue
		}
		entrypoints, err := display.Entrypoints(profile)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", profile, err)
		}
		if slices.Contains(entrypoints, EntrypointVLD) {
			width, height, err := display.MaxPictureSize(profile, EntrypointVLD)
			if err != nil {
				return nil, fmt.Errorf("profile %d decode: %w", profile, err)
			}
			for _, t := range tuples {
				acc.AddDecoding(t.codec, capability.DecodingSpec{
					Chroma:     t.chroma,
					ColorDepth: t.depth,
					MaxWidth:   width,
					MaxHeight:  height,
				})
			}
		}
		if slices.Contains(entrypoints, EntrypointEncSlice) {
			width, height, err := display.MaxPictureSize(profile, EntrypointEncSlice)
			if err != nil {
				return nil, fmt.Errorf("profile %d encode: %w", profile, err)
			}
			for _, t := range tuples {
				acc.AddEncoding(t.codec, capability.EncodingSpec{
					Chroma:           t.chroma,
					ColorDepth:       t.depth,
					Profile:          t.profile,
					MaxWidth:         width,
					MaxHeight:        height,
					BFramesSupported: capability.Unknown,
				})
			}
		}
	}
	return acc.CodecDetails(), nil
}
