// User HTTP handlers.
//
// This file exposes:
//   - GET /users/{id}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Description Looks up a user. Every account is inactive, so this endpoint always fails with INACTIVE_USER.
// @Tags        Users
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(42)
//
// @Success     200  {object}  domain.User
// @Failure     403  {object}  handlers.ErrorResponse  "Inactive user"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
