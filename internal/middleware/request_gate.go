// internal/middleware/request_gate.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Page paths used by the gate.
const (
	pathRoot      = "/"
	dashboardHome = "/dashboard/overview"
	loginPage     = "/auth/login"
)

// RequestGate redirects page requests based purely on the presence of
// the refresh cookie. It never validates the token: an expired or
// tampered cookie still passes, and real authorization happens at the
// bearer middleware or the refresh endpoint. API routes are untouched.
func RequestGate(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			c.Next()
			return
		}

		_, err := c.Cookie(cookieName)
		if target, redirect := GateDecision(path, err == nil); redirect {
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GateDecision is the pure routing policy: given a page path and cookie
// presence it returns the redirect target, or redirect=false to let the
// request through. Rules are evaluated in order.
func GateDecision(path string, hasCookie bool) (target string, redirect bool) {
	switch {
	case path == pathRoot:
		if hasCookie {
			return dashboardHome, true
		}
		return loginPage, true
	case strings.HasPrefix(path, "/dashboard"):
		if !hasCookie {
			return loginPage, true
		}
	case strings.HasPrefix(path, "/auth"):
		if hasCookie {
			return dashboardHome, true
		}
	}
	return "", false
}
