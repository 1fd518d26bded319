// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response shapes and helpers shared by all endpoints.
// Handlers only write success responses themselves. Failures are attached to
// the Gin context with abortWithError and rendered by the advice layer, which
// is the only place failure statuses are decided.
//
// Example error response (rendered by the advice layer):
//
//	HTTP/1.1 403 Forbidden
//	{
//	  "code": "INACTIVE_USER",
//	  "message": "User is inactive"
//	}
package handlers

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON envelope returned for domain errors.
//
// This struct is used in OpenAPI documentation via Swagger annotations.
type ErrorResponse struct {
	// Stable, machine-readable error code name
	Code string `json:"code" example:"INACTIVE_USER"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"User is inactive"`
}

// okText writes a plain-text success response.
func okText(c *gin.Context, status int, body string) {
	c.String(status, body)
}

// abortWithError attaches err to the context and stops the handler chain.
// Nothing is written; the advice middleware translates err on the way out.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
