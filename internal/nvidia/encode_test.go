package nvidia

import (
	"errors"
	"testing"

	"hwscan/internal/capability"
)

type specKey struct {
	chroma capability.Chroma
	depth  capability.ColorDepth
}

func keys(specs []capability.EncodingSpec) []specKey {
	out := make([]specKey, 0, len(specs))
	for _, s := range specs {
		out = append(out, specKey{s.Chroma, s.ColorDepth})
	}
	return out
}

func TestSynthesizeEncodingSpecs(t *testing.T) {
	base := specKey{capability.ChromaYuv420, capability.ColorDepth8}
	tests := []struct {
		name string
		caps encodeCaps
		want []specKey
	}{
		{"base only", encodeCaps{}, []specKey{base}},
		{"ten bit only", encodeCaps{tenBit: true}, []specKey{base, {capability.ChromaYuv420, capability.ColorDepth10}}},
		{"yuv444 only", encodeCaps{yuv444: true}, []specKey{base, {capability.ChromaYuv444, capability.ColorDepth8}}},
		{"both collapse", encodeCaps{tenBit: true, yuv444: true}, []specKey{base, {capability.ChromaYuv444, capability.ColorDepth10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.caps.maxWidth = 4096
			tt.caps.maxHeight = 2304
			specs := synthesizeEncodingSpecs(capability.ProfileHigh, tt.caps)
			got := keys(specs)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d specs, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("spec %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
			for _, s := range specs {
				if s.Profile != capability.ProfileHigh || s.MaxWidth != 4096 || s.MaxHeight != 2304 {
					t.Fatalf("unexpected spec fields %+v", s)
				}
			}
		})
	}
}

func TestSynthesizeBFramesIsDefinite(t *testing.T) {
	with := synthesizeEncodingSpecs(capability.ProfileMain, encodeCaps{bFrames: true})
	without := synthesizeEncodingSpecs(capability.ProfileMain, encodeCaps{})
	if with[0].BFramesSupported != capability.True {
		t.Fatalf("expected true, got %v", with[0].BFramesSupported)
	}
	if without[0].BFramesSupported != capability.False {
		t.Fatalf("expected false, got %v", without[0].BFramesSupported)
	}
}

func TestToUint32RejectsNegative(t *testing.T) {
	if _, err := toUint32("max width", -1); !errors.Is(err, ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	if v, err := toUint32("max width", 8192); err != nil || v != 8192 {
		t.Fatalf("unexpected result %d %v", v, err)
	}
}

func TestCString(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "RTX A2000\x00junk")
	if got := cString(buf); got != "RTX A2000" {
		t.Fatalf("expected NUL truncation, got %q", got)
	}
	if got := cString([]byte{'G', 0xff, 'P', 0}); got != "G\uFFFDP" {
		t.Fatalf("expected lossy decode, got %q", got)
	}
}
