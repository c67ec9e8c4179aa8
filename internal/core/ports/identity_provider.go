package ports

import (
	"context"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

// IdentityProvider creates and deletes principals in the identity store.
type IdentityProvider interface {
	// CreateIdentity provisions a confirmed principal for the email. There is
	// no confirmation round trip: the identity is usable immediately.
	CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error)

	// DeleteIdentity removes a principal. Deleting an id that does not exist
	// is not an error, so compensations can be retried safely.
	DeleteIdentity(ctx context.Context, id string) error
}
