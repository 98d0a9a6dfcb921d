// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"adminboard-service/internal/domain/user"
	"adminboard-service/internal/pkg/response"
	"adminboard-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Auth validates the bearer access token and populates the request
// context with the caller's identity.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractBearerToken(c)
		if tok == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization token")
			return
		}

		claims, err := m.authService.VerifyAccess(c.Request.Context(), tok)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
// MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "no role found - authentication required")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, response.CodeForbidden, "insufficient permissions")
	}
}

// AdminOnly returns the middleware chain for ADMIN-only routes.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(user.RoleAdmin),
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <t>".
// Anything else (missing header, wrong scheme, extra parts) yields "".
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
