package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Checkout sells a single fixed-price ticket type.
const (
	ticketPriceCents = 1200
	ticketCurrency   = "eur"
)

type createIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

func (s Server) PostCreatePaymentIntent(c echo.Context) error {
	clientSecret, err := s.payments.CreatePaymentIntent(c.Request().Context(), ticketCurrency, ticketPriceCents)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createIntentResponse{ClientSecret: clientSecret})
}
