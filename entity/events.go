package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

type TicketIssued struct {
	Header           EventHeader `json:"header"`
	RedemptionCode   string      `json:"redemption_code"`
	Email            string      `json:"email"`
	PaymentReference string      `json:"payment_reference"`
	AmountCents      int64       `json:"amount_cents"`
}

type TicketRedeemed struct {
	Header         EventHeader `json:"header"`
	RedemptionCode string      `json:"redemption_code"`
}
