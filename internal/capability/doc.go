// Package capability defines the vendor-neutral model produced by a hardware
// scan.
//
// A scan yields a Report: an ordered list of Devices, each carrying one
// CodecDetails record per codec it can decode or encode. Codec, Chroma,
// ColorDepth, EncodeProfile and ThreeValue are closed sets; their declared
// order drives the order of every list in a Report so repeated scans of the
// same hardware render identically.
//
// # Key Types
//
// Accumulator: collects decode and encode specs per codec while a vendor
// probe runs, then emits CodecDetails in AllCodecs order, dropping codecs
// with neither side populated.
//
// Device: immutable once constructed through NewNvidiaDevice or
// NewVaapiDevice.
//
// Report: owned result of one scan. Info returns a read-only view with
// serialisation tags; Release drops the tree.
package capability
