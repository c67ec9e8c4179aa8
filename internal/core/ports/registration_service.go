package ports

import (
	"context"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

// AddressInput holds the caller-submitted address fields.
type AddressInput struct {
	PostalCode string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	Region     string
	Lat        float64
	Lng        float64
}

// RegisterInput carries all data needed to onboard one account. Fields that do
// not apply to the chosen kind are left empty.
type RegisterInput struct {
	Kind       domain.ProfileKind
	Email      string
	Password   string
	Name       string
	Phone      string
	FiscalID   string
	LegalName  string // studio
	ArtistType string // artist: musician | band
	ImageURL   string // studio, optional
	Address    AddressInput
}

// RegistrationResult is returned after every mandatory step completed. There is
// no partial-success result: an error from Register guarantees any mandatory
// step that had committed has been compensated.
type RegistrationResult struct {
	UserID    string
	ProfileID string
}

// RegistrationService drives the onboarding saga for one request.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error)
}
