package handler

// Request and response schemas for the registration endpoints. One request
// struct per profile kind: the field set differs between them and keeping the
// schemas separate keeps the validation tags honest.

type clientRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	FiscalID string `json:"fiscal_id" validate:"required"`

	addressFields
}

type artistRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	FiscalID string `json:"fiscal_id" validate:"required"`
	// musician for an individual, band for a group.
	ArtistType string `json:"kind" validate:"required,oneof=musician band"`

	addressFields
}

type studioRegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	FiscalID  string `json:"fiscal_id" validate:"required"`
	LegalName string `json:"legal_name" validate:"required"`
	ImageURL  string `json:"image_url"`

	addressFields
}

// addressFields is shared by every request kind. All fields are optional at
// the schema level; kind-specific requirements are enforced by the service.
type addressFields struct {
	PostalCode string  `json:"address_postal_code"`
	Street     string  `json:"address_street"`
	Number     string  `json:"address_number"`
	Complement string  `json:"address_complement"`
	District   string  `json:"address_district"`
	City       string  `json:"address_city"`
	Region     string  `json:"address_region"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// registrationResponse is the envelope returned by every registration
// endpoint, on success and on failure alike.
type registrationResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	Notification string            `json:"notification"`
	Data         *registrationData `json:"data,omitempty"`
}

type registrationData struct {
	UserID    string `json:"userId"`
	ProfileID string `json:"profileId"`
}
