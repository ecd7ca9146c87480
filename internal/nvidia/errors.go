package nvidia

import (
	"errors"
	"fmt"
)

var (
	// ErrFunctionUnavailable marks an NVENC function table slot the driver left empty.
	ErrFunctionUnavailable = errors.New("nvenc function unavailable")
	// ErrConversion marks an identifier or capability value that does not fit its Go type.
	ErrConversion = errors.New("value conversion failed")
	// ErrContextDestroyed is returned by a Context used after destruction.
	ErrContextDestroyed = errors.New("cuda context destroyed")
)

// StatusError reports a CUDA, NVDEC or NVENC call that returned a failure status.
type StatusError struct {
	API  string
	Op   string
	Code int32
}

func (e *StatusError) Error() string {
	if name := statusName(e.API, e.Code); name != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Op, name, e.Code)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

const (
	apiCUDA  = "cuda"
	apiNVENC = "nvenc"
)

func cudaStatus(op string, code int32) error {
	if code == 0 {
		return nil
	}
	return &StatusError{API: apiCUDA, Op: op, Code: code}
}

func nvencStatus(op string, code int32) error {
	if code == 0 {
		return nil
	}
	return &StatusError{API: apiNVENC, Op: op, Code: code}
}

var cudaNames = map[int32]string{
	1:   "CUDA_ERROR_INVALID_VALUE",
	2:   "CUDA_ERROR_OUT_OF_MEMORY",
	3:   "CUDA_ERROR_NOT_INITIALIZED",
	4:   "CUDA_ERROR_DEINITIALIZED",
	34:  "CUDA_ERROR_STUB_LIBRARY",
	100: "CUDA_ERROR_NO_DEVICE",
	101: "CUDA_ERROR_INVALID_DEVICE",
	201: "CUDA_ERROR_INVALID_CONTEXT",
	216: "CUDA_ERROR_CONTEXT_ALREADY_IN_USE",
	304: "CUDA_ERROR_OPERATING_SYSTEM",
	801: "CUDA_ERROR_NOT_SUPPORTED",
	999: "CUDA_ERROR_UNKNOWN",
}

var nvencNames = map[int32]string{
	1:  "NV_ENC_ERR_NO_ENCODE_DEVICE",
	2:  "NV_ENC_ERR_UNSUPPORTED_DEVICE",
	3:  "NV_ENC_ERR_INVALID_ENCODERDEVICE",
	4:  "NV_ENC_ERR_INVALID_DEVICE",
	5:  "NV_ENC_ERR_DEVICE_NOT_EXIST",
	6:  "NV_ENC_ERR_INVALID_PTR",
	8:  "NV_ENC_ERR_INVALID_PARAM",
	9:  "NV_ENC_ERR_INVALID_CALL",
	10: "NV_ENC_ERR_OUT_OF_MEMORY",
	12: "NV_ENC_ERR_UNSUPPORTED_PARAM",
	15: "NV_ENC_ERR_INVALID_VERSION",
	20: "NV_ENC_ERR_GENERIC",
	22: "NV_ENC_ERR_UNIMPLEMENTED",
}

func statusName(api string, code int32) string {
	switch api {
	case apiCUDA:
		return cudaNames[code]
	case apiNVENC:
		return nvencNames[code]
	}
	return ""
}
