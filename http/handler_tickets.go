package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hambax/entity"
	"hambax/redemption"
)

type checkQRRequest struct {
	QRHash string `json:"qr_hash"`
}

type checkQRResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ticketLookupRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type ticketInfoResponse struct {
	QRCodePath string `json:"qr_code_path"`
	PDFPath    string `json:"pdf_path"`
}

type ticketStatusResponse struct {
	IsActive bool `json:"is_active"`
}

// PostCheckQR is the entrance scanner endpoint. All three outcomes are valid
// scan results and answered with 200; the scanner branches on "status".
func (s Server) PostCheckQR(c echo.Context) error {
	var request checkQRRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.QRHash == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "qr_hash is required")
	}

	outcome, err := s.redemption.Redeem(c.Request().Context(), request.QRHash)
	if err != nil {
		return err
	}

	switch outcome {
	case redemption.Admitted:
		return c.JSON(http.StatusOK, checkQRResponse{
			Status:  "success",
			Message: "QR code is valid and now deactivated.",
		})
	case redemption.AlreadyUsed:
		return c.JSON(http.StatusOK, checkQRResponse{
			Status:  "fail",
			Message: "QR code is already deactivated.",
		})
	default:
		return c.JSON(http.StatusOK, checkQRResponse{
			Status:  "fail",
			Message: "QR code not found.",
		})
	}
}

func (s Server) PostTicketInfo(c echo.Context) error {
	var request ticketLookupRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ticket, err := s.ticketsRepo.GetByPaymentReference(c.Request().Context(), request.PaymentIntentID)
	if errors.Is(err, entity.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "qr_code_not_found"})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticketInfoResponse{
		QRCodePath: ticket.QRCodePath,
		PDFPath:    ticket.PDFPath,
	})
}

func (s Server) PostTicketStatus(c echo.Context) error {
	var request ticketLookupRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ticket, err := s.ticketsRepo.GetByPaymentReference(c.Request().Context(), request.PaymentIntentID)
	if errors.Is(err, entity.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "qr_code_not_found"})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ticketStatusResponse{IsActive: ticket.Active})
}
