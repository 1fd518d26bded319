package domain

import "net/http"

// CommonErrorCode enumerates failures that are not tied to a business domain:
// routing fallbacks, throttling, and the generic server error.
type CommonErrorCode int

const (
	InvalidParameter CommonErrorCode = iota + 1
	ResourceNotFound
	MethodNotAllowed
	TooManyRequests
	InternalServerError
)

var commonCodes = map[CommonErrorCode]descriptor{
	InvalidParameter:    {"INVALID_PARAMETER", http.StatusBadRequest, "Invalid parameter included"},
	ResourceNotFound:    {"RESOURCE_NOT_FOUND", http.StatusNotFound, "Resource not exists"},
	MethodNotAllowed:    {"METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "Method not allowed"},
	TooManyRequests:     {"TOO_MANY_REQUESTS", http.StatusTooManyRequests, "Rate limit exceeded"},
	InternalServerError: {"INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "Internal server error"},
}

var commonCodeOrder = []CommonErrorCode{
	InvalidParameter,
	ResourceNotFound,
	MethodNotAllowed,
	TooManyRequests,
	InternalServerError,
}

func (c CommonErrorCode) describe() descriptor {
	if d, ok := commonCodes[c]; ok {
		return d
	}
	return fallback
}

// Name implements ErrorCode.
func (c CommonErrorCode) Name() string { return c.describe().name }

// HTTPStatus implements ErrorCode.
func (c CommonErrorCode) HTTPStatus() int { return c.describe().status }

// Message implements ErrorCode.
func (c CommonErrorCode) Message() string { return c.describe().message }

// String returns the code name.
func (c CommonErrorCode) String() string { return c.Name() }
