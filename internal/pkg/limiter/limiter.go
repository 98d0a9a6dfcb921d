// internal/pkg/limiter/limiter.go
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute
)

// LoginLimiter counts login attempts per (ip, email) in redis. A nil
// limiter allows everything, so callers can run without redis.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// Allow records an attempt and reports whether it is within the window
// budget. Errors fail open: a broken limiter must not lock users out.
func (l *LoginLimiter) Allow(ctx context.Context, ip, email string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}

	key := loginKey(ip, email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("failed to increment login attempt: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, key, loginWindow)
	}
	return count <= maxLoginAttempts, nil
}

// Reset clears the attempt counter after a successful login so the
// window only ever counts consecutive failures.
func (l *LoginLimiter) Reset(ctx context.Context, ip, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, loginKey(ip, email)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

func loginKey(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
}
