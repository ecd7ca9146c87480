package capability

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestAccumulatorDropsEmptyCodecsAndKeepsDeclaredOrder(t *testing.T) {
	var acc Accumulator
	acc.AddEncoding(CodecAv1, EncodingSpec{Chroma: ChromaYuv420, ColorDepth: ColorDepth8, Profile: ProfileMain})
	acc.AddDecoding(CodecH264, DecodingSpec{Chroma: ChromaYuv420, ColorDepth: ColorDepth8, MaxWidth: 4096, MaxHeight: 4096})
	acc.AddDecoding(CodecMpeg2, DecodingSpec{Chroma: ChromaYuv420, ColorDepth: ColorDepth8, MaxWidth: 1920, MaxHeight: 1080})
	acc.AddEncoding(CodecH264, EncodingSpec{Chroma: ChromaYuv420, ColorDepth: ColorDepth8, Profile: ProfileHigh})

	details := acc.CodecDetails()
	got := make([]Codec, 0, len(details))
	for _, d := range details {
		got = append(got, d.Codec)
	}
	want := []Codec{CodecMpeg2, CodecH264, CodecAv1}
	if len(got) != len(want) {
		t.Fatalf("expected codecs %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codec %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if len(details[1].Decoding) != 1 || len(details[1].Encoding) != 1 {
		t.Fatalf("expected h264 to carry both sides, got %+v", details[1])
	}
	if len(details[2].Decoding) != 0 || len(details[2].Encoding) != 1 {
		t.Fatalf("expected encode-only av1, got %+v", details[2])
	}
}

func TestAccumulatorZeroValueYieldsNothing(t *testing.T) {
	var acc Accumulator
	if details := acc.CodecDetails(); len(details) != 0 {
		t.Fatalf("expected no codecs, got %v", details)
	}
}

func TestAccumulatorKeepsSpecInsertionOrder(t *testing.T) {
	var acc Accumulator
	for _, depth := range AllColorDepths {
		acc.AddDecoding(CodecHevc, DecodingSpec{Chroma: ChromaYuv420, ColorDepth: depth})
	}
	details := acc.CodecDetails()
	if len(details) != 1 {
		t.Fatalf("expected one codec, got %d", len(details))
	}
	for i, depth := range AllColorDepths {
		if details[0].Decoding[i].ColorDepth != depth {
			t.Fatalf("spec %d: expected %v, got %v", i, depth, details[0].Decoding[i].ColorDepth)
		}
	}
}

func TestDeviceCodecsAreCopies(t *testing.T) {
	codecs := []CodecDetails{{
		Codec:    CodecH264,
		Decoding: []DecodingSpec{{Chroma: ChromaYuv420, ColorDepth: ColorDepth8, MaxWidth: 4096}},
	}}
	device := NewVaapiDevice("/dev/dri/renderD128", "Intel iHD", codecs)
	codecs[0].Decoding[0].MaxWidth = 1

	first := device.Codecs()
	if first[0].Decoding[0].MaxWidth != 4096 {
		t.Fatalf("constructor did not copy input, got width %d", first[0].Decoding[0].MaxWidth)
	}
	first[0].Decoding[0].MaxWidth = 2
	if again := device.Codecs(); again[0].Decoding[0].MaxWidth != 4096 {
		t.Fatalf("accessor leaked internal slice, got width %d", again[0].Decoding[0].MaxWidth)
	}
	if _, ok := device.Codec(CodecAv1); ok {
		t.Fatal("expected av1 lookup to miss")
	}
}

func TestDeviceIdentity(t *testing.T) {
	id := uuid.MustParse("5f2a39f5-f14e-4f95-9a9e-b76d568fcf97")
	nv := NewNvidiaDevice(1, "NVIDIA RTX A2000", id, nil)
	if nv.Driver() != DriverNvidia || nv.Ordinal() != 1 || nv.UUID() != id {
		t.Fatalf("unexpected nvidia identity: %+v", nv.Info())
	}
	if nv.Label() != "cuda:1" {
		t.Fatalf("unexpected label %q", nv.Label())
	}
	va := NewVaapiDevice("/dev/dri/renderD129", "", nil)
	if va.Driver() != DriverVaapi || va.UUID() != uuid.Nil || va.Label() != "/dev/dri/renderD129" {
		t.Fatalf("unexpected vaapi identity: %+v", va.Info())
	}
}

func TestReportReleaseEmptiesView(t *testing.T) {
	report := NewReport([]Device{
		NewNvidiaDevice(0, "gpu", uuid.Nil, nil),
		NewVaapiDevice("/dev/dri/renderD128", "Mesa Gallium", nil),
	})
	if report.Len() != 2 {
		t.Fatalf("expected 2 devices, got %d", report.Len())
	}
	if info := report.Info(); len(info.Devices) != 2 {
		t.Fatalf("expected 2 devices in view, got %d", len(info.Devices))
	}
	report.Release()
	report.Release()
	if !report.Released() {
		t.Fatal("expected report to be released")
	}
	if info := report.Info(); len(info.Devices) != 0 {
		t.Fatalf("expected empty view after release, got %d", len(info.Devices))
	}
}

func TestReportFilter(t *testing.T) {
	report := NewReport([]Device{
		NewNvidiaDevice(0, "gpu", uuid.Nil, nil),
		NewVaapiDevice("/dev/dri/renderD128", "Mesa Gallium", nil),
	})
	only := report.Filter(DriverVaapi)
	devices := only.Devices()
	if len(devices) != 1 || devices[0].Driver() != DriverVaapi {
		t.Fatalf("expected one vaapi device, got %v", devices)
	}
	if report.Len() != 2 {
		t.Fatal("filter mutated the source report")
	}
}

func TestInfoJSONUsesNames(t *testing.T) {
	device := NewNvidiaDevice(0, "gpu", uuid.Nil, []CodecDetails{{
		Codec: CodecHevc,
		Encoding: []EncodingSpec{{
			Chroma:           ChromaYuv444,
			ColorDepth:       ColorDepth10,
			Profile:          ProfileMain10,
			MaxWidth:         8192,
			MaxHeight:        8192,
			BFramesSupported: Unknown,
		}},
	}})
	data, err := json.Marshal(NewReport([]Device{device}).Info())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"driver":"nvidia"`, `"ordinal":0`, `"codec":"hevc"`, `"chroma":"yuv444"`, `"color_depth":"bit10"`, `"profile":"main10"`, `"b_frames_supported":"unknown"`, `"decoding":[]`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestEnumNames(t *testing.T) {
	if CodecH264.String() != "h264" || Codec(3).String() != "codec(3)" {
		t.Fatalf("unexpected codec names %q %q", CodecH264, Codec(3))
	}
	if Codec(3).Valid() {
		t.Fatal("expected codec 3 to be invalid")
	}
	if _, err := Codec(3).MarshalText(); err == nil {
		t.Fatal("expected marshal error for unknown codec")
	}
	if ThreeValueOf(true) != True || ThreeValueOf(false) != False {
		t.Fatal("unexpected ThreeValueOf result")
	}
	driver, err := ParseDriver(" NVIDIA ")
	if err != nil || driver != DriverNvidia {
		t.Fatalf("ParseDriver: %v %v", driver, err)
	}
	if _, err := ParseDriver("intel"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
