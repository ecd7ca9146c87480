package capability

// Accumulator collects specs per codec while a device is probed. The zero
// value is ready to use.
type Accumulator struct {
	decoding map[Codec][]DecodingSpec
	encoding map[Codec][]EncodingSpec
}

// AddDecoding records a supported decode configuration for codec.
func (a *Accumulator) AddDecoding(codec Codec, spec DecodingSpec) {
	if a.decoding == nil {
		a.decoding = make(map[Codec][]DecodingSpec)
	}
	a.decoding[codec] = append(a.decoding[codec], spec)
}

// AddEncoding records a supported encode configuration for codec.
func (a *Accumulator) AddEncoding(codec Codec, spec EncodingSpec) {
	if a.encoding == nil {
		a.encoding = make(map[Codec][]EncodingSpec)
	}
	a.encoding[codec] = append(a.encoding[codec], spec)
}

// CodecDetails walks AllCodecs and emits one record per codec that has at
// least one decode or encode spec. Specs keep insertion order.
func (a *Accumulator) CodecDetails() []CodecDetails {
	details := make([]CodecDetails, 0, len(AllCodecs))
	for _, codec := range AllCodecs {
		entry := CodecDetails{
			Codec:    codec,
			Decoding: append([]DecodingSpec(nil), a.decoding[codec]...),
			Encoding: append([]EncodingSpec(nil), a.encoding[codec]...),
		}
		if entry.Empty() {
			continue
		}
		details = append(details, entry)
	}
	return details
}
