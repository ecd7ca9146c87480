package nvidia

import "hwscan/internal/capability"

// probeDecode queries every codec x chroma x depth combination inside one
// scoped call and records the supported ones.
func probeDecode(guard *Context, api API, acc *capability.Accumulator) error {
	return guard.WithScoped(func() error {
		for _, codec := range capability.AllCodecs {
			for _, chroma := range capability.AllChromas {
				for _, depth := range capability.AllColorDepths {
					caps, err := api.DecoderCaps(DecodeQuery{Codec: codec, Chroma: chroma, Depth: depth})
					if err != nil {
						return err
					}
					if !caps.Supported {
						continue
					}
					acc.AddDecoding(codec, capability.DecodingSpec{
						Chroma:     chroma,
						ColorDepth: depth,
						MaxWidth:   caps.MaxWidth,
						MaxHeight:  caps.MaxHeight,
					})
				}
			}
		}
		return nil
	})
}
