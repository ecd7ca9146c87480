// Package logging builds the slog loggers used by hwscan.
//
// Console output is a compact human format, JSON output uses ts/level/msg
// keys. A configured log directory adds a rotating JSON file next to the
// console stream. The attr helpers and standard field keys keep component,
// driver and device tagging consistent across the vendor packages.
package logging
