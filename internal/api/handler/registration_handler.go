package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

// RegistrationHandler exposes the onboarding endpoints, one per profile kind.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// RegisterClient handles POST /v1/register/client.
func (h *RegistrationHandler) RegisterClient(c echo.Context) error {
	var req clientRegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondInvalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err.Error())
	}
	return h.register(c, toClientInput(req))
}

// RegisterArtist handles POST /v1/register/artist.
func (h *RegistrationHandler) RegisterArtist(c echo.Context) error {
	var req artistRegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondInvalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err.Error())
	}
	return h.register(c, toArtistInput(req))
}

// RegisterStudio handles POST /v1/register/studio.
func (h *RegistrationHandler) RegisterStudio(c echo.Context) error {
	var req studioRegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondInvalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err.Error())
	}
	return h.register(c, toStudioInput(req))
}

func (h *RegistrationHandler) register(c echo.Context, input ports.RegisterInput) error {
	result, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		return respondRegistrationError(c, err)
	}

	return c.JSON(http.StatusCreated, registrationResponse{
		Success:      true,
		Message:      "registered",
		Notification: "Registration completed successfully.",
		Data: &registrationData{
			UserID:    result.UserID,
			ProfileID: result.ProfileID,
		},
	})
}

// respondRegistrationError translates a service error into the response
// envelope. Unexpected errors produce a generic message; the real cause is
// logged by the service and the central error handler, never sent to clients.
func respondRegistrationError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return respondValidation(c, ve.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		return c.JSON(http.StatusConflict, registrationResponse{
			Message:      "email taken",
			Notification: "This email is already registered. Use another email or sign in.",
		})
	case errors.Is(err, domain.ErrFiscalIDTaken):
		return c.JSON(http.StatusConflict, registrationResponse{
			Message:      "fiscal id taken",
			Notification: "This fiscal ID is already registered to another account.",
		})
	}

	return c.JSON(http.StatusInternalServerError, registrationResponse{
		Message:      "registration failed",
		Notification: "We could not complete your registration. Please try again later.",
	})
}

func respondValidation(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, registrationResponse{
		Message:      msg,
		Notification: "Please review the highlighted fields and try again.",
	})
}

func respondInvalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, registrationResponse{
		Message:      "invalid request payload",
		Notification: "The request could not be read. Check the submitted data and try again.",
	})
}
