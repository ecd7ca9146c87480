package capability

// DecodingSpec is one supported decode configuration.
type DecodingSpec struct {
	Chroma     Chroma     `json:"chroma" yaml:"chroma"`
	ColorDepth ColorDepth `json:"color_depth" yaml:"color_depth"`
	MaxWidth   uint32     `json:"max_width" yaml:"max_width"`
	MaxHeight  uint32     `json:"max_height" yaml:"max_height"`
}

// EncodingSpec is one supported encode configuration.
type EncodingSpec struct {
	Chroma           Chroma        `json:"chroma" yaml:"chroma"`
	ColorDepth       ColorDepth    `json:"color_depth" yaml:"color_depth"`
	Profile          EncodeProfile `json:"profile" yaml:"profile"`
	MaxWidth         uint32        `json:"max_width" yaml:"max_width"`
	MaxHeight        uint32        `json:"max_height" yaml:"max_height"`
	BFramesSupported ThreeValue    `json:"b_frames_supported" yaml:"b_frames_supported"`
}

// CodecDetails groups every decode and encode spec reported for one codec.
// Either list may be empty, never both.
type CodecDetails struct {
	Codec    Codec          `json:"codec" yaml:"codec"`
	Decoding []DecodingSpec `json:"decoding" yaml:"decoding"`
	Encoding []EncodingSpec `json:"encoding" yaml:"encoding"`
}

// Empty reports whether neither side carries a spec.
func (d CodecDetails) Empty() bool {
	return len(d.Decoding) == 0 && len(d.Encoding) == 0
}

func (d CodecDetails) clone() CodecDetails {
	out := CodecDetails{Codec: d.Codec}
	if d.Decoding != nil {
		out.Decoding = append([]DecodingSpec(nil), d.Decoding...)
	}
	if d.Encoding != nil {
		out.Encoding = append([]EncodingSpec(nil), d.Encoding...)
	}
	return out
}

func cloneCodecs(codecs []CodecDetails) []CodecDetails {
	if codecs == nil {
		return nil
	}
	out := make([]CodecDetails, len(codecs))
	for i, c := range codecs {
		out[i] = c.clone()
	}
	return out
}
