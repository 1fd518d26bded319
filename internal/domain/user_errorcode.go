package domain

import "net/http"

// UserErrorCode enumerates failures of the user domain.
type UserErrorCode int

const (
	// InactiveUser is raised for any lookup of a deactivated account.
	InactiveUser UserErrorCode = iota + 1
)

var userCodes = map[UserErrorCode]descriptor{
	InactiveUser: {"INACTIVE_USER", http.StatusForbidden, "User is inactive"},
}

var userCodeOrder = []UserErrorCode{InactiveUser}

func (c UserErrorCode) describe() descriptor {
	if d, ok := userCodes[c]; ok {
		return d
	}
	return fallback
}

// Name implements ErrorCode.
func (c UserErrorCode) Name() string { return c.describe().name }

// HTTPStatus implements ErrorCode.
func (c UserErrorCode) HTTPStatus() int { return c.describe().status }

// Message implements ErrorCode.
func (c UserErrorCode) Message() string { return c.describe().message }

// String returns the code name.
func (c UserErrorCode) String() string { return c.Name() }
