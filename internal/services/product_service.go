// Package services – ProductService
//
// This file implements ProductService, which classifies a product identifier
// by sign. Identifiers arrive as raw path segments; parsing failures are
// returned unchanged as *strconv.NumError so the advice layer can map them
// to the configured "number format" response.
package services

import (
	"context"
	"strconv"
)

// Fixed product descriptions returned by Describe.
const (
	DescBiggerThanZero  = "bigger than zero"
	DescSmallerThanZero = "smaller than zero"
)

// ProductService provides read-only product operations.
type ProductService struct{}

// NewProductService constructs a ProductService.
func NewProductService() *ProductService {
	return &ProductService{}
}

// Describe parses id as a 32-bit signed integer and reports whether it is
// strictly positive. Zero counts as "smaller than zero".
func (s *ProductService) Describe(_ context.Context, id string) (string, error) {
	n, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return DescBiggerThanZero, nil
	}
	return DescSmallerThanZero, nil
}
