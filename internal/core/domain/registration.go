package domain

import (
	"strings"
	"time"
)

// ProfileKind identifies which onboarding variant a registration belongs to.
type ProfileKind string

const (
	KindClient ProfileKind = "client"
	KindArtist ProfileKind = "artist"
	KindStudio ProfileKind = "studio"
)

const (
	ArtistTypeMusician = "musician"
	ArtistTypeBand     = "band"
)

// SubscriptionTrial is the initial subscription status assigned to billable
// profiles before the billing service has been consulted.
const SubscriptionTrial = "trial"

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Address holds a postal address as submitted by the caller or as resolved by
// the enrichment service.
type Address struct {
	PostalCode  string      `json:"postal_code" bson:"postal_code"`
	Street      string      `json:"street" bson:"street"`
	Number      string      `json:"number,omitempty" bson:"number,omitempty"`
	Complement  string      `json:"complement,omitempty" bson:"complement,omitempty"`
	District    string      `json:"district" bson:"district"`
	City        string      `json:"city" bson:"city"`
	Region      string      `json:"region" bson:"region"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// ResolvedAddress is the normalized address returned by the postal-code
// enrichment service. Resolved values take precedence over caller-submitted
// address fields.
type ResolvedAddress struct {
	Street      string
	District    string
	City        string
	Region      string
	Coordinates Coordinates
}

// Apply overwrites the address with the resolved values, keeping the submitted
// value wherever the resolver returned an empty field.
func (a *Address) Apply(r *ResolvedAddress) {
	if r == nil {
		return
	}
	if r.Street != "" {
		a.Street = r.Street
	}
	if r.District != "" {
		a.District = r.District
	}
	if r.City != "" {
		a.City = r.City
	}
	if r.Region != "" {
		a.Region = strings.ToUpper(r.Region)
	}
	if r.Coordinates.Lat != 0 || r.Coordinates.Lng != 0 {
		a.Coordinates = r.Coordinates
	}
}

// Registration is a fully-shaped onboarding request for one profile kind.
// It is normalized once at the start of the saga and immutable afterwards,
// except for address fields overwritten by enrichment.
type Registration struct {
	Kind       ProfileKind
	Email      string
	Password   string
	Name       string
	Phone      string
	FiscalID   string
	LegalName  string // studio only
	ArtistType string // artist only: musician | band
	ImageURL   string // studio only, optional
	Address    Address
}

// Normalize trims every string field, lowercases the email, uppercases the
// region code, and strips non-digits from the postal code.
func (r *Registration) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.FiscalID = strings.TrimSpace(r.FiscalID)
	r.LegalName = strings.TrimSpace(r.LegalName)
	r.ArtistType = strings.TrimSpace(r.ArtistType)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	r.Address.PostalCode = DigitsOnly(strings.TrimSpace(r.Address.PostalCode))
	r.Address.Street = strings.TrimSpace(r.Address.Street)
	r.Address.Number = strings.TrimSpace(r.Address.Number)
	r.Address.Complement = strings.TrimSpace(r.Address.Complement)
	r.Address.District = strings.TrimSpace(r.Address.District)
	r.Address.City = strings.TrimSpace(r.Address.City)
	r.Address.Region = strings.ToUpper(strings.TrimSpace(r.Address.Region))
}

// Identity is the handle of a principal provisioned in the identity store.
type Identity struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// BillingAccount carries the external billing identifiers attached to a
// profile after the billing step succeeds. Its absence is a valid terminal
// state for any registration.
type BillingAccount struct {
	CustomerID     string    `json:"customer_id" bson:"customer_id"`
	SubscriptionID string    `json:"subscription_id" bson:"subscription_id"`
	Status         string    `json:"status" bson:"status"`
	PaymentLink    string    `json:"payment_link,omitempty" bson:"payment_link,omitempty"`
	NextDueDate    time.Time `json:"next_due_date" bson:"next_due_date"`
}

// postalCodeLength is the fixed length of a syntactically valid postal code.
const postalCodeLength = 8

// ValidPostalCode reports whether code is a digits-only postal code of the
// expected length, the precondition for an enrichment lookup.
func ValidPostalCode(code string) bool {
	if len(code) != postalCodeLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
