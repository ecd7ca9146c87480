// Package main hosts the hwscan CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// off to the internal packages: scan and watch drive internal/hwscan and
// render through internal/report, libs reports driver library resolution and
// doctor runs the render node preflight checks.
package main
