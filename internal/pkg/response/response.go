// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "adminboard-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Wire error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope defines the standard API response format.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Success sends a successful response with optional data.
func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Error sends a standardized error response. Aborts first so no later
// handler writes over it.
func Error(c *gin.Context, status int, code, message string) {
	c.Abort()
	c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// FromError maps a service error onto the wire taxonomy. Anything that is
// not a known sentinel becomes a generic 500; the underlying error is
// attached to the gin context for the request logger and never leaks to
// the client.
func FromError(c *gin.Context, err error) {
	var ve *xerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, CodeValidation, ve.Reason)
	case errors.Is(err, xerrors.ErrDuplicateEmail):
		Error(c, http.StatusConflict, CodeEmailExists, xerrors.ErrDuplicateEmail.Error())
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, CodeInvalidCredentials, xerrors.ErrInvalidCredentials.Error())
	case errors.Is(err, xerrors.ErrAccountInactive):
		Error(c, http.StatusForbidden, CodeAccountInactive, xerrors.ErrAccountInactive.Error())
	case errors.Is(err, xerrors.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, CodeUnauthorized, xerrors.ErrUnauthorized.Error())
	case errors.Is(err, xerrors.ErrForbidden):
		Error(c, http.StatusForbidden, CodeForbidden, xerrors.ErrForbidden.Error())
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, CodeRateLimited, xerrors.ErrRateLimited.Error())
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred")
	}
}
