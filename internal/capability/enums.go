package capability

import (
	"fmt"
	"strings"
)

// Driver identifies the backend that produced a device entry.
type Driver int

const (
	DriverVaapi  Driver = 0
	DriverNvidia Driver = 1
)

var driverNames = map[Driver]string{
	DriverVaapi:  "vaapi",
	DriverNvidia: "nvidia",
}

func (d Driver) String() string { return enumName(driverNames, d, "driver") }

// MarshalText renders the driver as its lowercase name.
func (d Driver) MarshalText() ([]byte, error) { return marshalEnum(driverNames, d, "driver") }

// ParseDriver resolves a driver from its name, ignoring case.
func ParseDriver(value string) (Driver, error) { return parseEnum(driverNames, value, "driver") }

// Codec is one of the fixed set of video codecs a scan reports on.
type Codec int

const (
	CodecMpeg1 Codec = 1
	CodecMpeg2 Codec = 2
	CodecMpeg4 Codec = 4
	CodecVc1   Codec = 7
	CodecH264  Codec = 264
	CodecHevc  Codec = 265
	CodecVp8   Codec = 8
	CodecVp9   Codec = 9
	CodecAv1   Codec = 10
)

// AllCodecs lists every codec in output order.
var AllCodecs = []Codec{
	CodecMpeg1,
	CodecMpeg2,
	CodecMpeg4,
	CodecVc1,
	CodecH264,
	CodecHevc,
	CodecVp8,
	CodecVp9,
	CodecAv1,
}

var codecNames = map[Codec]string{
	CodecMpeg1: "mpeg1",
	CodecMpeg2: "mpeg2",
	CodecMpeg4: "mpeg4",
	CodecVc1:   "vc1",
	CodecH264:  "h264",
	CodecHevc:  "hevc",
	CodecVp8:   "vp8",
	CodecVp9:   "vp9",
	CodecAv1:   "av1",
}

func (c Codec) String() string { return enumName(codecNames, c, "codec") }

// MarshalText renders the codec as its lowercase name.
func (c Codec) MarshalText() ([]byte, error) { return marshalEnum(codecNames, c, "codec") }

// Valid reports whether c belongs to the closed codec set.
func (c Codec) Valid() bool {
	_, ok := codecNames[c]
	return ok
}

// Chroma is a chroma subsampling format.
type Chroma int

const (
	ChromaMonochrome Chroma = 0
	ChromaYuv420     Chroma = 1
	ChromaYuv422     Chroma = 2
	ChromaYuv444     Chroma = 3
)

// AllChromas lists every chroma format in declared order.
var AllChromas = []Chroma{ChromaMonochrome, ChromaYuv420, ChromaYuv422, ChromaYuv444}

var chromaNames = map[Chroma]string{
	ChromaMonochrome: "monochrome",
	ChromaYuv420:     "yuv420",
	ChromaYuv422:     "yuv422",
	ChromaYuv444:     "yuv444",
}

func (c Chroma) String() string { return enumName(chromaNames, c, "chroma") }

// MarshalText renders the chroma format as its lowercase name.
func (c Chroma) MarshalText() ([]byte, error) { return marshalEnum(chromaNames, c, "chroma") }

// ColorDepth is the number of bits per sample.
type ColorDepth int

const (
	ColorDepth8  ColorDepth = 8
	ColorDepth10 ColorDepth = 10
	ColorDepth12 ColorDepth = 12
)

// AllColorDepths lists every color depth in declared order.
var AllColorDepths = []ColorDepth{ColorDepth8, ColorDepth10, ColorDepth12}

var colorDepthNames = map[ColorDepth]string{
	ColorDepth8:  "bit8",
	ColorDepth10: "bit10",
	ColorDepth12: "bit12",
}

func (d ColorDepth) String() string { return enumName(colorDepthNames, d, "color depth") }

// MarshalText renders the depth as bit8, bit10 or bit12.
func (d ColorDepth) MarshalText() ([]byte, error) {
	return marshalEnum(colorDepthNames, d, "color depth")
}

// Bits returns the sample width in bits.
func (d ColorDepth) Bits() int { return int(d) }

// EncodeProfile is the codec profile an encode spec was reported for.
type EncodeProfile int

const (
	ProfileBaseline EncodeProfile = 1
	ProfileMain     EncodeProfile = 10
	ProfileMain10   EncodeProfile = 11
	ProfileHigh     EncodeProfile = 100
	ProfileHigh10   EncodeProfile = 110
	ProfileHigh12   EncodeProfile = 112
	ProfileHigh444  EncodeProfile = 140
)

var profileNames = map[EncodeProfile]string{
	ProfileBaseline: "baseline",
	ProfileMain:     "main",
	ProfileMain10:   "main10",
	ProfileHigh:     "high",
	ProfileHigh10:   "high10",
	ProfileHigh12:   "high12",
	ProfileHigh444:  "high444",
}

func (p EncodeProfile) String() string { return enumName(profileNames, p, "profile") }

// MarshalText renders the profile as its lowercase name.
func (p EncodeProfile) MarshalText() ([]byte, error) {
	return marshalEnum(profileNames, p, "profile")
}

// ThreeValue is a boolean with an explicit unknown state.
type ThreeValue int

const (
	False   ThreeValue = 0
	True    ThreeValue = 1
	Unknown ThreeValue = 2
)

var threeValueNames = map[ThreeValue]string{
	False:   "false",
	True:    "true",
	Unknown: "unknown",
}

// ThreeValueOf converts a definite boolean.
func ThreeValueOf(v bool) ThreeValue {
	if v {
		return True
	}
	return False
}

func (v ThreeValue) String() string { return enumName(threeValueNames, v, "three-value") }

// MarshalText renders the value as false, true or unknown.
func (v ThreeValue) MarshalText() ([]byte, error) {
	return marshalEnum(threeValueNames, v, "three-value")
}

func enumName[T ~int](names map[T]string, v T, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", kind, int(v))
}

func marshalEnum[T ~int](names map[T]string, v T, kind string) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("unknown %s %d", kind, int(v))
	}
	return []byte(name), nil
}

func parseEnum[T ~int](names map[T]string, value, kind string) (T, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for v, name := range names {
		if name == needle {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, value)
}
