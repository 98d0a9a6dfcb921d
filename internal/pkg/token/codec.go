// internal/pkg/token/codec.go
package token

import (
	"errors"
	"fmt"
	"time"

	"adminboard-service/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Verification failure kinds. The refresh handler clears the session
// cookie on either; tests distinguish them.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Access and refresh tokens are signed with distinct secrets and carry
// distinct audiences, so a leaked access token cannot be replayed
// against the refresh endpoint.
const (
	audienceAccess  = "adminboard"
	audienceRefresh = "adminboard:refresh"
)

// Config holds signing material and lifetimes for the codec.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Now overrides the clock; nil means time.Now. No skew grace is
	// applied: a token is expired the instant now > exp.
	Now func() time.Time
}

// Codec creates and verifies the signed, expiring access and refresh
// tokens.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token codec requires both signing secrets")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess mints a short-lived access token for u.
func (c *Codec) IssueAccess(u *user.User, version int64) (string, error) {
	return c.issue(u, version, c.accessSecret, audienceAccess, c.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for u.
func (c *Codec) IssueRefresh(u *user.User, version int64) (string, error) {
	return c.issue(u, version, c.refreshSecret, audienceRefresh, c.refreshTTL)
}

func (c *Codec) issue(u *user.User, version int64, secret []byte, audience string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := newClaims(u, version)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   u.ID,
		Audience:  []string{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        ulid.Make().String(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns its claims.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.accessSecret, audienceAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.refreshSecret, audienceRefresh)
}

func (c *Codec) verify(tokenString string, secret []byte, audience string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
