package handlers

import (
	"context"

	"github.com/tbourn/go-handle-exception/internal/domain"
)

//
// Service contracts (context-aware)
//

// ProductService classifies product identifiers.
type ProductService interface {
	// Describe parses id and returns the product description.
	Describe(ctx context.Context, id string) (string, error)
}

// UserService looks up users.
type UserService interface {
	// Get returns the user identified by id.
	Get(ctx context.Context, id string) (*domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the product and user endpoints. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	productSvc ProductService
	userSvc    UserService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(productSvc ProductService, userSvc UserService) *Handlers {
	return &Handlers{productSvc: productSvc, userSvc: userSvc}
}
