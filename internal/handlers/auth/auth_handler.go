// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"adminboard-service/internal/domain/user"
	xerrors "adminboard-service/internal/pkg/errors"
	"adminboard-service/internal/pkg/limiter"
	"adminboard-service/internal/pkg/response"
	authUsecase "adminboard-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

type AuthHandler struct {
	authService  *authUsecase.Service
	loginLimiter *limiter.LoginLimiter
	cookieMaxAge int
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthHandler(authService *authUsecase.Service, loginLimiter *limiter.LoginLimiter, cookieMaxAge int, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request body")
		return
	}

	resp, refreshToken, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setRefreshCookie(c, refreshToken)
	response.Success(c, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request body")
		return
	}

	allowed, err := h.loginLimiter.Allow(c.Request.Context(), c.ClientIP(), req.Email)
	if err != nil {
		h.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !allowed {
		response.FromError(c, xerrors.ErrRateLimited)
		return
	}

	resp, refreshToken, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	if err := h.loginLimiter.Reset(c.Request.Context(), c.ClientIP(), req.Email); err != nil {
		h.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	h.setRefreshCookie(c, refreshToken)
	response.Success(c, http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh. The refresh token comes from
// the cookie only; no body is read. Any verification failure clears the
// cookie so the client falls back to a fresh login.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookieName)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing refresh token")
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			h.clearRefreshCookie(c)
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout. Sessions are stateless server
// side, so logout is purely cookie removal.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearRefreshCookie(c)
	response.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, tok string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, tok, h.cookieMaxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", h.secureCookie, true)
}
