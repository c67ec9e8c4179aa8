package enrichment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

// Cache abstracts the postal-code resolution cache (Redis in production).
// Get returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, postalCode string) (*domain.ResolvedAddress, error)
	Put(ctx context.Context, postalCode string, addr *domain.ResolvedAddress) error
}

// CachedResolver is a read-through cache in front of another resolver. Cache
// errors are logged and treated as misses; a failed write-back never fails
// the lookup.
type CachedResolver struct {
	next  ports.AddressResolver
	cache Cache
	log   zerolog.Logger
}

func NewCachedResolver(next ports.AddressResolver, cache Cache, log zerolog.Logger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, log: log}
}

func (r *CachedResolver) Resolve(ctx context.Context, postalCode string) (*domain.ResolvedAddress, error) {
	cached, err := r.cache.Get(ctx, postalCode)
	if err != nil {
		r.log.Warn().Err(err).Str("postal_code", postalCode).Msg("postal cache read failed, falling through")
	} else if cached != nil {
		r.log.Debug().Str("postal_code", postalCode).Msg("postal cache hit")
		return cached, nil
	}

	resolved, err := r.next.Resolve(ctx, postalCode)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Put(ctx, postalCode, resolved); err != nil {
		r.log.Warn().Err(err).Str("postal_code", postalCode).Msg("postal cache write failed")
	}
	return resolved, nil
}
