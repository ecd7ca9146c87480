// Package deps reports which vendor driver libraries resolve on this host.
//
// It reuses the dylib specs the scanners bind against, so "hwscan libs"
// checks exactly the file names and symbols a scan would need without
// creating any GPU context.
package deps
