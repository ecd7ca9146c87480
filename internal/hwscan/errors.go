package hwscan

import (
	"errors"
	"fmt"

	"hwscan/internal/dylib"
	"hwscan/internal/nvidia"
	"hwscan/internal/vaapi"
)

// ErrorCode is the outcome of a scan as a small integer.
type ErrorCode int

const (
	CriticalError    ErrorCode = -666
	Success          ErrorCode = 0
	DriverFailure    ErrorCode = 1
	OperationFailed  ErrorCode = 2
	ConversionFailed ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case CriticalError:
		return "critical_error"
	case Success:
		return "success"
	case DriverFailure:
		return "driver_failure"
	case OperationFailed:
		return "operation_failed"
	case ConversionFailed:
		return "conversion_failed"
	default:
		return fmt.Sprintf("error_code(%d)", int(c))
	}
}

// ExitStatus converts the code to a process exit status. CriticalError
// maps to 70 (EX_SOFTWARE).
func (c ErrorCode) ExitStatus() int {
	switch {
	case c == CriticalError:
		return 70
	case c < 0:
		return int(-c)
	default:
		return int(c)
	}
}

// CriticalFault wraps a panic recovered during a scan.
type CriticalFault struct {
	Value any
	Stack []byte
}

func (e *CriticalFault) Error() string {
	return fmt.Sprintf("critical fault: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *CriticalFault) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// CodeOf classifies err. Library absence counts as success.
func CodeOf(err error) ErrorCode {
	var (
		fault    *CriticalFault
		nvStatus *nvidia.StatusError
		vaStatus *vaapi.StatusError
		openErr  *vaapi.OpenError
	)
	switch {
	case err == nil:
		return Success
	case errors.As(err, &fault):
		return CriticalError
	case errors.Is(err, dylib.ErrNotLoaded):
		return Success
	case errors.Is(err, nvidia.ErrConversion), errors.Is(err, vaapi.ErrConversion):
		return ConversionFailed
	case errors.Is(err, dylib.ErrSymbolNotFound), errors.Is(err, nvidia.ErrFunctionUnavailable):
		return DriverFailure
	case errors.As(err, &nvStatus), errors.As(err, &vaStatus):
		return OperationFailed
	case errors.Is(err, vaapi.ErrEnumerateDevices), errors.Is(err, vaapi.ErrNoDisplay), errors.As(err, &openErr):
		return DriverFailure
	default:
		return OperationFailed
	}
}
