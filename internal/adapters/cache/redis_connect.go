package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// clientName shows up in CLIENT LIST so the auth service's connections
// are distinguishable from other wiki services on a shared Redis.
const clientName = "chainwiki-auth"

// Connect initializes the Redis client shared by the nonce store and
// the session revocation cache. Accepts a redis:// URL or a bare
// host:port for container setups.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		opt.ClientName = clientName
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL, ClientName: clientName}), nil
}
