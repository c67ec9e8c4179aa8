package service

import (
	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

// kindSpec is the per-kind step table driving the registration saga: which
// collection receives the profile row, which fields are mandatory, and which
// optional steps apply. Declaring the workflow here keeps the orchestrator a
// single code path instead of one near-duplicate flow per kind.
type kindSpec struct {
	collection string

	// separateAddressRow stores the address in its own collection keyed by
	// the identity id instead of embedding it in the profile row.
	separateAddressRow bool

	// enrichable enables the postal-code enrichment step.
	enrichable bool

	// fiscalUnique enforces the fiscal-identifier uniqueness pre-check
	// against the kind's collection.
	fiscalUnique bool

	// billable enables the billing customer/subscription step and the
	// initial trial fields on the profile row.
	billable bool

	required func(r *domain.Registration) []field
}

type field struct {
	name  string
	value string
}

func baseFields(r *domain.Registration) []field {
	return []field{
		{"email", r.Email},
		{"password", r.Password},
		{"name", r.Name},
		{"phone", r.Phone},
		{"fiscal_id", r.FiscalID},
	}
}

func addressFields(r *domain.Registration) []field {
	return []field{
		{"address_postal_code", r.Address.PostalCode},
		{"address_street", r.Address.Street},
		{"address_city", r.Address.City},
		{"address_region", r.Address.Region},
		{"address_district", r.Address.District},
	}
}

var kindSpecs = map[domain.ProfileKind]kindSpec{
	domain.KindClient: {
		collection:   ports.CollectionClients,
		enrichable:   true,
		fiscalUnique: true,
		required: func(r *domain.Registration) []field {
			return append(baseFields(r), addressFields(r)...)
		},
	},
	domain.KindArtist: {
		collection:   ports.CollectionArtists,
		enrichable:   true,
		fiscalUnique: true,
		required: func(r *domain.Registration) []field {
			fields := append(baseFields(r), addressFields(r)...)
			return append(fields, field{"artist_type", r.ArtistType})
		},
	},
	domain.KindStudio: {
		collection:         ports.CollectionStudios,
		separateAddressRow: true,
		enrichable:         true,
		fiscalUnique:       true,
		billable:           true,
		required: func(r *domain.Registration) []field {
			fields := append(baseFields(r), addressFields(r)...)
			return append(fields,
				field{"legal_name", r.LegalName},
				field{"address_number", r.Address.Number},
			)
		},
	},
}

// missingFields returns the names of mandatory fields that are empty after
// normalization, in declaration order.
func missingFields(r *domain.Registration, spec kindSpec) []string {
	var missing []string
	for _, f := range spec.required(r) {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
