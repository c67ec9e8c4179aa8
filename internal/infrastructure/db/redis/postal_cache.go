package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

const postalCacheTTL = 24 * time.Hour

// PostalCache caches resolved postal-code lookups in Redis.
// Key format: cep:<8-digit code>
type PostalCache struct {
	client *redis.Client
}

// NewPostalCache creates a PostalCache wrapping the given Redis client.
func NewPostalCache(client *redis.Client) *PostalCache {
	return &PostalCache{client: client}
}

// Get returns the cached resolution for code, or (nil, nil) on a miss.
func (c *PostalCache) Get(ctx context.Context, code string) (*domain.ResolvedAddress, error) {
	raw, err := c.client.Get(ctx, c.key(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("postal cache get: %w", err)
	}

	var addr domain.ResolvedAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("postal cache decode: %w", err)
	}
	return &addr, nil
}

// Put stores a resolution for code (expires after postalCacheTTL).
func (c *PostalCache) Put(ctx context.Context, code string, addr *domain.ResolvedAddress) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("postal cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(code), raw, postalCacheTTL).Err()
}

func (c *PostalCache) key(code string) string {
	return "cep:" + code
}
