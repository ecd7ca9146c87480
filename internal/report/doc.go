// Package report renders a capability report for people and programs.
//
// Table output groups one go-pretty table per device, colour is optional.
// JSON and YAML emit the ReportInfo view verbatim so field names match the
// capability package tags.
package report
