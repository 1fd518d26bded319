// Package domain defines the error taxonomy shared by services and the HTTP
// layer, plus the small transport-independent models returned by services.
//
// Every domain failure is described by an ErrorCode: a stable name, the HTTP
// status it translates to, and a message that is safe to show to callers.
// Codes are grouped per domain (common, user, ...) as closed enumerations and
// never change at runtime.
package domain

import "net/http"

// ErrorCode is a named, immutable domain error descriptor.
//
// Implementations must return the same values for the lifetime of the
// process; the advice layer relies on that to produce deterministic
// responses.
type ErrorCode interface {
	// Name is the unique identifier of the code (e.g. "INACTIVE_USER").
	Name() string
	// HTTPStatus is the status the code translates to.
	HTTPStatus() int
	// Message is the human-readable description.
	Message() string
}

// descriptor holds the fixed attributes behind an enumerated code.
type descriptor struct {
	name    string
	status  int
	message string
}

// fallback is returned for enum values that have no descriptor.
var fallback = descriptor{
	name:    "INTERNAL_SERVER_ERROR",
	status:  http.StatusInternalServerError,
	message: "Internal server error",
}

// Lookup resolves a code by name across all domains.
func Lookup(name string) (ErrorCode, bool) {
	for _, c := range AllErrorCodes() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// AllErrorCodes lists every declared code, common codes first.
func AllErrorCodes() []ErrorCode {
	out := make([]ErrorCode, 0, len(commonCodes)+len(userCodes))
	for _, c := range commonCodeOrder {
		out = append(out, c)
	}
	for _, c := range userCodeOrder {
		out = append(out, c)
	}
	return out
}
