// Package vaapi probes VA-API drivers through DRM render nodes.
//
// Devices are found on the filesystem, not through a vendor call:
// EnumerateRenderNodes prefers the stable /dev/dri/by-path names and falls
// back to /dev/dri/renderD*. Each node is opened as a DRM display, its
// supported profiles are mapped through a fixed table onto codec, chroma and
// depth tuples, and every tuple inherits the max picture size the driver
// reports for the profile's decode (VLD) or encode (EncSlice) entrypoint.
//
// libva and libva-drm are bound with purego through a dylib.Registry; a
// missing library wraps dylib.ErrNotLoaded.
package vaapi
