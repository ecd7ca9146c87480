package nvidia

import (
	"github.com/google/uuid"

	"hwscan/internal/capability"
)

var (
	guidCodecH264 = uuid.MustParse("6bc82762-4e63-4ca4-aa85-1e50f321f6bf")
	guidCodecHEVC = uuid.MustParse("790cdc88-4522-4d7b-9425-bda9975f7603")
	guidCodecAV1  = uuid.MustParse("0a352289-0aa7-4759-862d-5d15cd16d254")
)

var encodeCodecs = map[uuid.UUID]capability.Codec{
	guidCodecH264: capability.CodecH264,
	guidCodecHEVC: capability.CodecHevc,
	guidCodecAV1:  capability.CodecAv1,
}

var encodeProfiles = map[uuid.UUID]capability.EncodeProfile{
	uuid.MustParse("0727bcaa-78c4-4c83-8c2f-ef3dff267c6a"): capability.ProfileBaseline,
	uuid.MustParse("60b5c1d4-67fe-4790-94d5-c4726d7b6e6d"): capability.ProfileMain,
	uuid.MustParse("e7cbc309-4f7a-4b89-af2a-d537c92be310"): capability.ProfileHigh,
	uuid.MustParse("7ac663cb-a598-4960-b844-339b261a7d52"): capability.ProfileHigh444,
	uuid.MustParse("b514c39a-b55b-40fa-878f-f1253b4dfdec"): capability.ProfileMain,
	uuid.MustParse("fa4d2b6c-3a5b-411a-8018-0a3f5e3c9be5"): capability.ProfileMain10,
	uuid.MustParse("5f2a39f5-f14e-4f95-9a9e-b76d568fcf97"): capability.ProfileMain,
}

// Profile GUIDs drivers report that have no EncodeProfile counterpart and are
// skipped without a log line: autoselect, H.264 stereo and HEVC FREXT.
var quietProfiles = map[uint32]struct{}{
	0xbfd6f8e7: {},
	0x40847bf5: {},
	0x51ec32b5: {},
}

func lookupEncodeCodec(id uuid.UUID) (capability.Codec, bool) {
	codec, ok := encodeCodecs[id]
	return codec, ok
}

// lookupEncodeProfile resolves a profile GUID. quiet reports a known GUID
// that should be dropped silently.
func lookupEncodeProfile(id uuid.UUID) (profile capability.EncodeProfile, ok, quiet bool) {
	if profile, ok := encodeProfiles[id]; ok {
		return profile, true, false
	}
	_, quiet = quietProfiles[data1(id)]
	return 0, false, quiet
}
