package ports

import (
	"context"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

// AddressResolver resolves a digits-only postal code into a normalized address
// with geocoordinates. Implementations apply a bounded timeout and return
// domain.ErrEnrichmentUnavailable on any failure; callers treat the lookup as
// best-effort and never abort on it.
type AddressResolver interface {
	Resolve(ctx context.Context, postalCode string) (*domain.ResolvedAddress, error)
}
