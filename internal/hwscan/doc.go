// Package hwscan runs a full hardware capability scan and merges the vendor
// results into one capability.Report.
//
// Scanner.Scan probes NVIDIA first and VA-API second (or both at once with
// WithParallel). A vendor whose libraries are missing contributes nothing
// and is not an error. When the NVIDIA scan ran, VA-API displays whose vendor
// string contains "nvdec" are dropped because they are the same GPUs seen
// through nvidia-vaapi-driver.
//
// Scan is the outermost entry point: a panic anywhere below it, including
// inside vendor goroutines, is recovered, logged with its stack and
// returned as *CriticalError. CodeOf maps any error Scan returns onto the
// small integer ErrorCode set callers exchange across process boundaries.
package hwscan
