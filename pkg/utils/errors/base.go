package errors

import "net/http"

// Common base errors shared by all services.
var (
	// OK indicates success.
	OK = Register(New(MakeCode(ServiceCommon, CategorySuccess, 0), http.StatusOK, "OK"))

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1), http.StatusBadRequest, "Bad request"))

	// ErrInvalidParam indicates an invalid request parameter.
	ErrInvalidParam = Register(New(MakeCode(ServiceCommon, CategoryRequest, 2), http.StatusBadRequest, "Invalid parameter"))

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 1), http.StatusNotFound, "Resource not found"))

	// ErrInternal indicates an unexpected internal error.
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1), http.StatusInternalServerError, "Internal server error"))

	// ErrDatabase indicates a database failure.
	ErrDatabase = Register(New(MakeCode(ServiceCommon, CategoryDatabase, 1), http.StatusInternalServerError, "Database error"))

	// ErrCache indicates a cache failure.
	ErrCache = Register(New(MakeCode(ServiceCommon, CategoryCache, 1), http.StatusInternalServerError, "Cache error"))

	// ErrTimeout indicates an upstream timeout.
	ErrTimeout = Register(New(MakeCode(ServiceCommon, CategoryTimeout, 1), http.StatusGatewayTimeout, "Request timeout"))
)

// FromError converts any error to Errno.
// If err is already an Errno, returns it directly.
// Otherwise, wraps it as ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Errno); ok {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode checks if the error has the given error code.
func IsCode(err error, code int) bool {
	if e, ok := err.(*Errno); ok {
		return e.Code == code
	}
	return false
}
