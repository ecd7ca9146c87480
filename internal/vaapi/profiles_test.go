package vaapi

import (
	"testing"

	"hwscan/internal/capability"
)

type stubDisplay struct {
	profiles    []Profile
	entrypoints map[Profile][]Entrypoint
	width       uint32
	height      uint32
	sizeCalls   int
}

func (s *stubDisplay) Vendor() string { return "stub" }

func (s *stubDisplay) Version() (int, int) { return 1, 20 }

func (s *stubDisplay) Profiles() ([]Profile, error) { return s.profiles, nil }

func (s *stubDisplay) Close() error { return nil }

func (s *stubDisplay) Entrypoints(p Profile) ([]Entrypoint, error) {
	return s.entrypoints[p], nil
}

func (s *stubDisplay) MaxPictureSize(Profile, Entrypoint) (uint32, uint32, error) {
	s.sizeCalls++
	return s.width, s.height, nil
}

func TestVP9Profile3ExpandsToSixTuples(t *testing.T) {
	display := &stubDisplay{
		profiles:    []Profile{ProfileVP9Profile3},
		entrypoints: map[Profile][]Entrypoint{ProfileVP9Profile3: {EntrypointVLD, EntrypointEncSlice}},
		width:       8192,
		height:      8192,
	}
	codecs, err := probeDisplay(display)
	if err != nil {
		t.Fatalf("probeDisplay: %v", err)
	}
	if len(codecs) != 1 || codecs[0].Codec != capability.CodecVp9 {
		t.Fatalf("expected vp9 only, got %+v", codecs)
	}
	if len(codecs[0].Decoding) != 6 || len(codecs[0].Encoding) != 6 {
		t.Fatalf("expected six specs per entrypoint, got %d decode %d encode", len(codecs[0].Decoding), len(codecs[0].Encoding))
	}
	if display.sizeCalls != 2 {
		t.Fatalf("expected one size query per entrypoint, got %d", display.sizeCalls)
	}
	for _, spec := range codecs[0].Decoding {
		if spec.MaxWidth != 8192 || spec.MaxHeight != 8192 {
			t.Fatalf("expected shared size, got %+v", spec)
		}
	}
	for _, spec := range codecs[0].Encoding {
		if spec.BFramesSupported != capability.Unknown {
			t.Fatalf("expected unknown b-frames, got %v", spec.BFramesSupported)
		}
	}
}

func TestProbeSkipsUnmappedProfilesAndMissingEntrypoints(t *testing.T) {
	display := &stubDisplay{
		profiles: []Profile{ProfileH264High, Profile(13), ProfileHEVCMain10, ProfileAV1Profile0},
		entrypoints: map[Profile][]Entrypoint{
			ProfileH264High:    {EntrypointVLD, EntrypointEncSlice},
			Profile(13):        {EntrypointVLD},
			ProfileHEVCMain10:  {EntrypointEncSlice},
			ProfileAV1Profile0: {Entrypoint(8)},
		},
		width:  4096,
		height: 2160,
	}
	codecs, err := probeDisplay(display)
	if err != nil {
		t.Fatalf("probeDisplay: %v", err)
	}
	if len(codecs) != 2 || codecs[0].Codec != capability.CodecH264 || codecs[1].Codec != capability.CodecHevc {
		t.Fatalf("expected h264 and hevc, got %+v", codecs)
	}
	if len(codecs[1].Decoding) != 0 || len(codecs[1].Encoding) != 1 {
		t.Fatalf("expected encode-only hevc, got %+v", codecs[1])
	}
	enc := codecs[1].Encoding[0]
	if enc.Profile != capability.ProfileMain10 || enc.ColorDepth != capability.ColorDepth10 || enc.Chroma != capability.ChromaYuv420 {
		t.Fatalf("unexpected hevc main10 spec %+v", enc)
	}
}

func TestProfileTableTupleCounts(t *testing.T) {
	counts := map[Profile]int{
		ProfileVP9Profile1: 3,
		ProfileVP9Profile2: 2,
		ProfileVP9Profile3: 6,
		ProfileAV1Profile0: 2,
		ProfileAV1Profile1: 4,
		ProfileH264High10:  1,
	}
	for profile, want := range counts {
		tuples, ok := lookupProfile(profile)
		if !ok || len(tuples) != want {
			t.Errorf("profile %d: expected %d tuples, got %d", profile, want, len(tuples))
		}
	}
	if _, ok := lookupProfile(Profile(-1)); ok {
		t.Error("VAProfileNone must not map")
	}
	for profile, tuples := range profileTable {
		for _, tp := range tuples {
			if !tp.codec.Valid() {
				t.Errorf("profile %d maps to invalid codec %d", profile, tp.codec)
			}
		}
	}
}

func TestAttribValueNotSupportedReadsZero(t *testing.T) {
	if got := attribValue(configAttrib{value: vaAttribNotSupported}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := attribValue(configAttrib{value: 4096}); got != 4096 {
		t.Fatalf("expected 4096, got %d", got)
	}
}
