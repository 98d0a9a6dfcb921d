// internal/domain/user/dto.go
package user

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and refresh. The refresh
// token never appears here; it travels only in the httpOnly cookie.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

// UpdateStatusRequest is the body of PATCH /api/users/:id/status.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}
