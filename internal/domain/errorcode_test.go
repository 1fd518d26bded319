package domain

import (
	"net/http"
	"testing"
)

func TestErrorCodes_Descriptors(t *testing.T) {
	cases := []struct {
		code    ErrorCode
		name    string
		status  int
		message string
	}{
		{InactiveUser, "INACTIVE_USER", http.StatusForbidden, "User is inactive"},
		{InvalidParameter, "INVALID_PARAMETER", http.StatusBadRequest, "Invalid parameter included"},
		{ResourceNotFound, "RESOURCE_NOT_FOUND", http.StatusNotFound, "Resource not exists"},
		{MethodNotAllowed, "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "Method not allowed"},
		{TooManyRequests, "TOO_MANY_REQUESTS", http.StatusTooManyRequests, "Rate limit exceeded"},
		{InternalServerError, "INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		if got := tc.code.Name(); got != tc.name {
			t.Fatalf("Name() = %q; want %q", got, tc.name)
		}
		if got := tc.code.HTTPStatus(); got != tc.status {
			t.Fatalf("%s HTTPStatus() = %d; want %d", tc.name, got, tc.status)
		}
		if got := tc.code.Message(); got != tc.message {
			t.Fatalf("%s Message() = %q; want %q", tc.name, got, tc.message)
		}
	}
}

func TestErrorCodes_UnknownValueFallsBack(t *testing.T) {
	for _, c := range []ErrorCode{UserErrorCode(99), CommonErrorCode(0)} {
		if c.Name() != "INTERNAL_SERVER_ERROR" || c.HTTPStatus() != http.StatusInternalServerError {
			t.Fatalf("unknown code %v should fall back to INTERNAL_SERVER_ERROR, got %s/%d", c, c.Name(), c.HTTPStatus())
		}
	}
}

func TestErrorCodes_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllErrorCodes() {
		if seen[c.Name()] {
			t.Fatalf("duplicate code name %q", c.Name())
		}
		seen[c.Name()] = true
	}
	if len(seen) != len(commonCodes)+len(userCodes) {
		t.Fatalf("AllErrorCodes returned %d codes; want %d", len(seen), len(commonCodes)+len(userCodes))
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("INACTIVE_USER")
	if !ok || c != InactiveUser {
		t.Fatalf("Lookup(INACTIVE_USER) = %v, %v", c, ok)
	}
	if _, ok := Lookup("NOPE"); ok {
		t.Fatalf("Lookup(NOPE) should miss")
	}
}
