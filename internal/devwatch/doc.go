// Package devwatch reports DRM device hotplug through udev netlink events.
//
// A Monitor listens for add and remove uevents of the drm subsystem that
// carry a device node, batches events that arrive within the debounce
// window and calls its handler once per batch from a single goroutine.
package devwatch
