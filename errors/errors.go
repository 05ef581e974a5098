package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Clone returns a copy of e that can be decorated without touching e.
// Sentinel errors are shared, so always clone before WithDetail/WithCause.
func (e *AppError) Clone() *AppError {
	c := *e
	if e.Details != nil {
		c.Details = maps.Clone(e.Details)
	}
	return &c
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithMessage replaces the message and returns the receiver.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Container Error Constructors ---

// NotInitialized creates an error for a query against an unbuilt container.
func NotInitialized() *AppError {
	return &AppError{
		Code: ErrCodeNotInitialized, Message: "The container has not been initialized.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// AlreadyInitialized creates an error for a repeated bootstrap.
func AlreadyInitialized() *AppError {
	return &AppError{
		Code: ErrCodeAlreadyInitialized, Message: "The container has already been initialized.",
		HTTPStatus: http.StatusConflict,
	}
}

// AlreadyBuilt creates an error for a write against a frozen builder.
func AlreadyBuilt() *AppError {
	return &AppError{
		Code: ErrCodeAlreadyBuilt, Message: "The container has already been built.",
		HTTPStatus: http.StatusConflict,
	}
}

// NotRegistered creates an error for an unknown contract.
func NotRegistered(contract string) *AppError {
	details := map[string]any{}
	if contract != "" {
		details["contract"] = contract
	}
	return &AppError{
		Code: ErrCodeNotRegistered, Message: "No binding is registered for the requested contract.",
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// CircularDependency creates an error describing a dependency cycle.
func CircularDependency(chain string) *AppError {
	details := map[string]any{}
	if chain != "" {
		details["chain"] = chain
	}
	return &AppError{
		Code: ErrCodeCircularDependency, Message: "The binding graph contains a cycle.",
		HTTPStatus: http.StatusInternalServerError, Details: details,
	}
}

// InvalidBinding creates an error for a malformed binding.
func InvalidBinding(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidBinding, Message: reason,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// EnumerationFailed creates an error for a module discovery failure.
func EnumerationFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeEnumerationFailed, Message: "Module enumeration failed.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// RegistrationFailed creates an error for a failing registrar.
func RegistrationFailed(registrar string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRegistrationFailed, Message: fmt.Sprintf("Registrar %s failed.", registrar),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"registrar": registrar},
	}
}

// ConstructionFailed creates an error for a constructor that returned an error.
func ConstructionFailed(contract string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstructionFailed, Message: fmt.Sprintf("Constructing %s failed.", contract),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"contract": contract},
	}
}

// --- Data Error Constructors ---

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Conflict creates a new AppError for a conflict with the current state of the resource.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
