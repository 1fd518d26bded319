// Package services – UserService
//
// UserService exposes user lookups. Accounts are not stored anywhere, and
// every account is treated as deactivated: lookups fail with the
// INACTIVE_USER domain error.
package services

import (
	"context"

	"github.com/tbourn/go-handle-exception/internal/domain"
)

// UserService provides user-level operations.
type UserService struct{}

// NewUserService constructs a UserService.
func NewUserService() *UserService {
	return &UserService{}
}

// Get looks up the user identified by id. It always fails with a
// RestAPIError carrying domain.InactiveUser, whatever the id.
func (s *UserService) Get(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.NewRestAPIError(domain.InactiveUser)
}
