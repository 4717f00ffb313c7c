package issuance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"hambax/artifact"
	"hambax/entity"
	"hambax/metrics"
)

type TicketsRepository interface {
	Store(ctx context.Context, ticket entity.Ticket) error
	GetByPaymentReference(ctx context.Context, paymentReference string) (entity.Ticket, error)
}

type Renderer interface {
	Render(ctx context.Context, ticket entity.Ticket) (artifact.Artifacts, error)
}

type Issuer struct {
	tickets  TicketsRepository
	renderer Renderer
}

func NewIssuer(tickets TicketsRepository, renderer Renderer) Issuer {
	if tickets == nil {
		panic("missing tickets repository")
	}
	if renderer == nil {
		panic("missing renderer")
	}

	return Issuer{
		tickets:  tickets,
		renderer: renderer,
	}
}

// RedemptionCode derives the ticket's identity from the purchase. The same
// (email, payment reference, amount) always maps to the same code, so a
// re-delivered payment event can never mint a second code.
func RedemptionCode(email, paymentReference string, amountCents int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%d", email, paymentReference, amountCents)))
	return hex.EncodeToString(sum[:])
}

// Issue creates the ticket for a successful payment, rendering its QR code
// and PDF. If a ticket for the payment reference already exists it is
// returned as-is: issuance is idempotent on the payment reference.
func (i Issuer) Issue(ctx context.Context, email, paymentReference string, amountCents int64) (entity.Ticket, error) {
	existing, err := i.tickets.GetByPaymentReference(ctx, paymentReference)
	if err == nil {
		log.FromContext(ctx).
			WithField("payment_reference", paymentReference).
			Info("Ticket already issued for payment")
		return existing, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return entity.Ticket{}, err
	}

	ticket := entity.Ticket{
		RedemptionCode:   RedemptionCode(email, paymentReference, amountCents),
		Email:            email,
		PaymentReference: paymentReference,
		AmountCents:      amountCents,
		Active:           true,
		CreatedAt:        time.Now().UTC(),
	}

	artifacts, err := i.renderer.Render(ctx, ticket)
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("could not render ticket artifacts: %w", err)
	}
	ticket.QRCodePath = artifacts.QRCodePath
	ticket.PDFPath = artifacts.PDFPath

	if err := i.tickets.Store(ctx, ticket); err != nil {
		return entity.Ticket{}, err
	}

	metrics.TicketsIssued.Inc()

	return ticket, nil
}
