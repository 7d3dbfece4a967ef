package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisNonceStore holds single-use login challenges keyed by wallet
// address. GETDEL makes consumption atomic, so a challenge can never
// authorize two logins.
type RedisNonceStore struct {
	client *redis.Client
}

// NewRedisNonceStore creates the login challenge cache adapter.
func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

func (s *RedisNonceStore) Put(ctx context.Context, address, message string, ttl time.Duration) error {
	return s.client.Set(ctx, "auth:nonce:"+address, message, ttl).Err()
}

func (s *RedisNonceStore) Take(ctx context.Context, address string) (string, error) {
	message, err := s.client.GetDel(ctx, "auth:nonce:"+address).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return message, nil
}
