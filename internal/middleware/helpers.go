// internal/middleware/helpers.go
package middleware

import (
	"adminboard-service/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// GetUserID gets the authenticated user's id from context.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// MustGetUserID gets the user id from context or panics. Only for
// handlers behind Auth().
func MustGetUserID(c *gin.Context) string {
	id, ok := GetUserID(c)
	if !ok {
		panic("user_id not found in context")
	}
	return id
}

// GetEmail gets the authenticated user's email from context.
func GetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get("email")
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

// GetRole gets the authenticated user's role from context.
func GetRole(c *gin.Context) (user.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(user.Role)
	return role, ok
}
