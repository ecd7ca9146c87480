// Package preflight checks that the current user can reach the DRM devices
// and directories a scan needs.
//
// "hwscan doctor" prints these results next to the library status from
// package deps. A failed check never stops a scan: a render node the user
// cannot open shows up as a scan error with a less helpful message, so the
// doctor output names the owning group to add the user to.
package preflight
