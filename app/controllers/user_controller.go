package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

// UserController reports the authenticated caller.
type UserController struct{}

// NewUserController returns a UserController.
func NewUserController() *UserController {
	return &UserController{}
}

// Show returns the authenticated caller's token claims.
func (uc *UserController) Show(c *ctx.Context) {
	claims := auth.FromContext(c.Context())
	if claims == nil {
		c.Unauthorized()
		return
	}
	c.JSON(http.StatusOK, map[string]any{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}
