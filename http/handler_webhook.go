package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"hambax/intake"
)

// PostWebhook receives payment provider events. The signature is checked over
// the raw body before anything in it is parsed. A 5xx response makes the
// provider re-deliver, so processing failures are surfaced, not swallowed.
func (s Server) PostWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
	}

	event, err := s.verifier.VerifyAndParse(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.FromContext(c.Request().Context()).WithError(err).Warn("Webhook signature verification failed")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	if err := s.intake.Handle(c.Request().Context(), event); err != nil {
		if errors.Is(err, intake.ErrMalformedEvent) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"received": true})
}
