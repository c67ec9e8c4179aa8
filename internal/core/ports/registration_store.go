package ports

import (
	"context"
	"time"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

// Collection names used by the registration saga.
const (
	CollectionUsers     = "users"
	CollectionClients   = "clients"
	CollectionArtists   = "artists"
	CollectionStudios   = "studios"
	CollectionAddresses = "addresses"
)

// UserRow is the identity-index row keyed by the external identity id.
type UserRow struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
}

// ProfileRow is the per-kind business record. The saga generates the ID and
// references the identity through UserID. Address is embedded for kinds whose
// profile row carries the address; kinds with a separate address row leave it nil.
type ProfileRow struct {
	ID         string
	UserID     string
	Kind       domain.ProfileKind
	Name       string
	Email      string
	Phone      string
	FiscalID   string
	LegalName  string
	ArtistType string
	ImageURL   string
	Address    *domain.Address

	// Subscription fields, populated for billable kinds only.
	SubscriptionStatus string
	TrialEndsAt        time.Time

	CreatedAt time.Time
}

// AddressRow is a standalone address record keyed by the identity id.
type AddressRow struct {
	UserID  string
	Address domain.Address
}

// RegistrationStore performs keyed inserts and deletes across the profile
// collections and answers the saga's uniqueness pre-checks.
//
// Insert methods surface persistence-layer constraint violations as
// domain.ErrEmailTaken / domain.ErrFiscalIDTaken so the race between the
// pre-check and the insert collapses into the same conflict outcome.
// DeleteRow is idempotent: deleting a row that does not exist is not an error.
type RegistrationStore interface {
	// ExistsActive reports whether a non-deleted row in collection has the
	// given value on field. A query error is distinct from "not found" and
	// must never be treated as uniqueness satisfied.
	ExistsActive(ctx context.Context, collection, field, value string) (bool, error)

	InsertUser(ctx context.Context, row UserRow) error
	InsertProfile(ctx context.Context, collection string, row ProfileRow) error
	InsertAddress(ctx context.Context, row AddressRow) error

	// AttachBilling updates an existing profile row with the billing account
	// identifiers obtained from the billing service.
	AttachBilling(ctx context.Context, collection, profileID string, account domain.BillingAccount) error

	DeleteRow(ctx context.Context, collection, id string) error
}
