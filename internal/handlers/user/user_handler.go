// internal/handlers/user/user_handler.go
package user

import (
	"net/http"

	userDomain "adminboard-service/internal/domain/user"
	"adminboard-service/internal/middleware"
	"adminboard-service/internal/pkg/response"
	authUsecase "adminboard-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	authService *authUsecase.Service
	logger      *zap.Logger
}

func NewUserHandler(authService *authUsecase.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{authService: authService, logger: logger}
}

// Me returns the caller's own record (requires auth).
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	u, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// List returns all accounts (ADMIN only).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// UpdateStatus activates or deactivates an account (ADMIN only).
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req userDomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request body")
		return
	}

	u, err := h.authService.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.logger.Info("user status updated",
		zap.String("target_id", c.Param("id")),
		zap.String("by", middleware.MustGetUserID(c)),
	)
	response.Success(c, http.StatusOK, u)
}
