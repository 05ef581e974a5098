package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Bootstrap and container errors
const (
	// ErrCodeNotInitialized indicates the container was queried before it was built.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	// ErrCodeAlreadyInitialized indicates a second bootstrap attempt.
	ErrCodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	// ErrCodeAlreadyBuilt indicates a write to a builder that has been frozen.
	ErrCodeAlreadyBuilt ErrorCode = "ALREADY_BUILT"
	// ErrCodeNotRegistered indicates no binding exists for the requested contract.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeCircularDependency indicates the binding graph contains a cycle.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeInvalidBinding indicates a malformed binding.
	ErrCodeInvalidBinding ErrorCode = "INVALID_BINDING"
	// ErrCodeEnumerationFailed indicates module discovery failed.
	ErrCodeEnumerationFailed ErrorCode = "ENUMERATION_FAILED"
	// ErrCodeRegistrationFailed indicates a registrar reported an error.
	ErrCodeRegistrationFailed ErrorCode = "REGISTRATION_FAILED"
	// ErrCodeConstructionFailed indicates a constructor returned an error.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeDatabaseError:      true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
