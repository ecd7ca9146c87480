// Package nvidia probes NVIDIA GPUs through the CUDA driver API, NVDEC and
// NVENC.
//
// The native side is reached through purego: libcuda, libnvcuvid and
// libnvidia-encode are opened by a dylib.Registry on first use and cuInit
// runs once behind it. Everything above the bindings talks to the API
// interface so probes and the context guard run against fakes in tests.
//
// # Flow
//
// Scan enumerates CUDA ordinals, creates one Context per device, runs the
// decode probe (codec x chroma x depth, 108 cuvidGetDecoderCaps queries)
// inside WithScoped and the encode probe (one NVENC session) inside
// WithFloating, then destroys the context.
//
// # Errors
//
// A missing library wraps dylib.ErrNotLoaded. Failing CUDA or NVENC calls
// return *StatusError. Table entries NVENC leaves empty return
// ErrFunctionUnavailable; identifiers or capability values that do not fit
// return errors wrapping ErrConversion.
package nvidia
