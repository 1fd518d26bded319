// Product HTTP handlers.
//
// This file exposes:
//   - GET /product/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-handle-exception/internal/http/middleware"
)

// GetProduct godoc
// @ID          getProduct
// @Summary     Describe a product id
// @Description Parses the id as an integer and reports whether it is bigger than zero.
// @Description A non-numeric id is answered with the configured number-format status (404 by default) and the raw parse error as text.
// @Tags        Products
// @Produce     plain
//
// @Param       id  path  string  true  "Product ID (integer)"  example(5)
//
// @Success     200  {string}  string  "bigger than zero | smaller than zero"
// @Failure     404  {string}  string  "Parse error text"
// @Router      /product/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	id := c.Param("id")
	middleware.LoggerFrom(c).Info().Str("product_id", id).Msg("get product")

	desc, err := h.productSvc.Describe(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	okText(c, http.StatusOK, desc)
}
