package vaapi

import "hwscan/internal/capability"

// profileTuple is one codec, chroma and depth combination a VA profile
// covers. EncodeProfile is only used for encode specs.
type profileTuple struct {
	codec   capability.Codec
	profile capability.EncodeProfile
	chroma  capability.Chroma
	depth   capability.ColorDepth
}

func tuple(codec capability.Codec, profile capability.EncodeProfile, chroma capability.Chroma, depth capability.ColorDepth) profileTuple {
	return profileTuple{codec: codec, profile: profile, chroma: chroma, depth: depth}
}

const (
	c420 = capability.ChromaYuv420
	c422 = capability.ChromaYuv422
	c444 = capability.ChromaYuv444
	d8   = capability.ColorDepth8
	d10  = capability.ColorDepth10
	d12  = capability.ColorDepth12
)

// Several VP9 and AV1 profiles are reported as one capability although they
// cover multiple chroma and depth combinations; each expands to all of them.
var profileTable = map[Profile][]profileTuple{
	ProfileMPEG2Main:    {tuple(capability.CodecMpeg2, capability.ProfileMain, c420, d8)},
	ProfileMPEG4Main:    {tuple(capability.CodecMpeg4, capability.ProfileMain, c420, d8)},
	ProfileH264Baseline: {tuple(capability.CodecH264, capability.ProfileBaseline, c420, d8)},
	ProfileH264Main:     {tuple(capability.CodecH264, capability.ProfileMain, c420, d8)},
	ProfileH264High:     {tuple(capability.CodecH264, capability.ProfileHigh, c420, d8)},
	ProfileH264High10:   {tuple(capability.CodecH264, capability.ProfileHigh10, c420, d10)},
	ProfileVC1Main:      {tuple(capability.CodecVc1, capability.ProfileMain, c420, d8)},
	ProfileVP8Version0_3: {
		tuple(capability.CodecVp8, capability.ProfileBaseline, c420, d8),
	},
	ProfileHEVCMain:       {tuple(capability.CodecHevc, capability.ProfileMain, c420, d8)},
	ProfileHEVCMain10:     {tuple(capability.CodecHevc, capability.ProfileMain10, c420, d10)},
	ProfileHEVCMain12:     {tuple(capability.CodecHevc, capability.ProfileMain, c420, d12)},
	ProfileHEVCMain422_10: {tuple(capability.CodecHevc, capability.ProfileMain10, c422, d10)},
	ProfileHEVCMain422_12: {tuple(capability.CodecHevc, capability.ProfileMain, c422, d12)},
	ProfileHEVCMain444:    {tuple(capability.CodecHevc, capability.ProfileMain, c444, d8)},
	ProfileHEVCMain444_10: {tuple(capability.CodecHevc, capability.ProfileMain10, c444, d10)},
	ProfileHEVCMain444_12: {tuple(capability.CodecHevc, capability.ProfileMain, c444, d12)},
	ProfileVP9Profile0:    {tuple(capability.CodecVp9, capability.ProfileMain, c420, d8)},
	ProfileVP9Profile1: {
		tuple(capability.CodecVp9, capability.ProfileMain, c420, d8),
		tuple(capability.CodecVp9, capability.ProfileMain, c422, d8),
		tuple(capability.CodecVp9, capability.ProfileMain, c444, d8),
	},
	ProfileVP9Profile2: {
		tuple(capability.CodecVp9, capability.ProfileMain, c420, d10),
		tuple(capability.CodecVp9, capability.ProfileMain, c420, d12),
	},
	ProfileVP9Profile3: {
		tuple(capability.CodecVp9, capability.ProfileMain, c420, d10),
		tuple(capability.CodecVp9, capability.ProfileMain, c420, d12),
		tuple(capability.CodecVp9, capability.ProfileMain, c422, d10),
		tuple(capability.CodecVp9, capability.ProfileMain, c422, d12),
		tuple(capability.CodecVp9, capability.ProfileMain, c444, d10),
		tuple(capability.CodecVp9, capability.ProfileMain, c444, d12),
	},
	ProfileAV1Profile0: {
		tuple(capability.CodecAv1, capability.ProfileMain, c420, d8),
		tuple(capability.CodecAv1, capability.ProfileMain10, c420, d10),
	},
	ProfileAV1Profile1: {
		tuple(capability.CodecAv1, capability.ProfileHigh, c420, d8),
		tuple(capability.CodecAv1, capability.ProfileHigh10, c420, d10),
		tuple(capability.CodecAv1, capability.ProfileHigh, c444, d8),
		tuple(capability.CodecAv1, capability.ProfileHigh10, c444, d10),
	},
}

// lookupProfile returns the tuples a VA profile expands to. Profiles outside
// the table are skipped by the probe.
func lookupProfile(p Profile) ([]profileTuple, bool) {
	tuples, ok := profileTable[p]
	return tuples, ok
}
