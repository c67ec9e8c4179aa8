package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// errorResponse mirrors the registration envelope for errors raised outside
// the handlers: router 404s, method-not-allowed, bind failures, panics.
type errorResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Notification string `json:"notification"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Preserves the status code of echo's own errors (404, 405, bind failures).
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the same JSON envelope the registration endpoints use.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{
			Message:      msg,
			Notification: "The request could not be completed.",
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
