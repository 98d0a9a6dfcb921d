// internal/pkg/token/claims.go
package token

import (
	"time"

	"adminboard-service/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity bundle embedded in every token. The full user
// shape is carried so the client can render without a second round trip;
// the refresh path still re-reads the store before minting new tokens.
type Claims struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      user.Role   `json:"role"`
	Status    user.Status `json:"status"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Version   int64       `json:"ver,omitempty"`
	jwt.RegisteredClaims
}

func newClaims(u *user.User, version int64) Claims {
	return Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
		Version:   version,
	}
}
