// internal/pkg/token/version_store.go
package token

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// VersionStore keeps a per-user token version in redis. When version
// enforcement is enabled, tokens embed the version current at issuance
// and verification rejects any token minted before the last bump. This
// is the only piece of server-side session state and it is optional:
// with enforcement off the service stays fully stateless.
type VersionStore struct {
	client *redis.Client
}

func NewVersionStore(client *redis.Client) *VersionStore {
	return &VersionStore{client: client}
}

func (s *VersionStore) key(userID string) string {
	return fmt.Sprintf("tokenver:%s", userID)
}

// Current returns the user's token version; users never bumped are at 0.
func (s *VersionStore) Current(ctx context.Context, userID string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read token version: %w", err)
	}
	return v, nil
}

// Bump invalidates every token issued before this call.
func (s *VersionStore) Bump(ctx context.Context, userID string) (int64, error) {
	v, err := s.client.Incr(ctx, s.key(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump token version: %w", err)
	}
	return v, nil
}
