package entity

import "time"

type Ticket struct {
	RedemptionCode   string     `json:"redemption_code" db:"redemption_code"`
	Email            string     `json:"email" db:"email"`
	PaymentReference string     `json:"payment_reference" db:"payment_reference"`
	AmountCents      int64      `json:"amount_cents" db:"amount_cents"`
	Active           bool       `json:"active" db:"is_active"`
	NotificationSent bool       `json:"notification_sent" db:"notification_sent"`
	QRCodePath       string     `json:"qr_code_path" db:"qr_code_path"`
	PDFPath          string     `json:"pdf_path" db:"pdf_path"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt        *time.Time `json:"expires_at" db:"expires_at"`
}
