package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown        ErrorCode = "COMMON_000"
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeInvalidInput   ErrorCode = "COMMON_002"
	ErrCodeNotImplemented ErrorCode = "COMMON_003"
)

// Configuration error codes. These belong to the fail-fast class: a pipeline
// instance must refuse to start with an invalid configuration.
const (
	ErrCodeConfigInvalidThreshold ErrorCode = "CONFIG_001"
	ErrCodeConfigInvalidWeight    ErrorCode = "CONFIG_002"
	ErrCodeConfigUnreadable       ErrorCode = "CONFIG_003"
	ErrCodeConfigValidation       ErrorCode = "CONFIG_004"
)

// Data-load error codes. Also fail-fast: a partially loaded dictionary or
// confusion/trigram table must never be used.
const (
	ErrCodeDataFileUnreadable ErrorCode = "DATA_001"
	ErrCodeDataFileMalformed  ErrorCode = "DATA_002"
	ErrCodeDataFileEmpty      ErrorCode = "DATA_003"
)

// Fusion error codes.
const (
	ErrCodeFusionNoObservations ErrorCode = "FUSE_001"
	ErrCodeFusionInvalidBBox    ErrorCode = "FUSE_002"
)

// Correction error codes.
const (
	ErrCodeCorrectionModelMissing ErrorCode = "CORR_001"
)

// Aliases used throughout the codebase for readability at call sites.
const (
	CodeUnknown      = ErrCodeUnknown
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeInvalidInput
	CodeOK           = ErrorCode("OK")
)

// IsFailFast reports whether code belongs to the fail-fast class
// (configuration and data-load failures). Everything else in this core is a
// graceful-degradation condition carried in result confidence, not an error.
func IsFailFast(code ErrorCode) bool {
	switch code {
	case ErrCodeConfigInvalidThreshold, ErrCodeConfigInvalidWeight,
		ErrCodeConfigUnreadable, ErrCodeConfigValidation,
		ErrCodeDataFileUnreadable, ErrCodeDataFileMalformed, ErrCodeDataFileEmpty:
		return true
	}
	return false
}
