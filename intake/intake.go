package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"hambax/entity"
)

// ErrMalformedEvent marks a payload that cannot produce a ticket. It is a
// client error: the provider should not retry it.
var ErrMalformedEvent = errors.New("malformed payment event")

type Ledger interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// MarkProcessed records the event and publishes the TicketIssued event in
	// one transaction. A duplicate event ID must be treated as success.
	MarkProcessed(ctx context.Context, eventID string, issued entity.TicketIssued) error
}

type Issuer interface {
	Issue(ctx context.Context, email, paymentReference string, amountCents int64) (entity.Ticket, error)
}

type Notifier interface {
	SendTicket(ctx context.Context, ticket entity.Ticket) error
}

type TicketsRepository interface {
	MarkNotificationSent(ctx context.Context, paymentReference string) error
}

// Service processes each payment event exactly once end to end, despite
// at-least-once delivery from the provider. The ledger row is written only
// after issuance and notification fully succeeded; any earlier failure is
// surfaced so the provider re-delivers.
type Service struct {
	ledger   Ledger
	issuer   Issuer
	notifier Notifier
	tickets  TicketsRepository
}

func NewService(ledger Ledger, issuer Issuer, notifier Notifier, tickets TicketsRepository) Service {
	if ledger == nil {
		panic("missing ledger")
	}
	if issuer == nil {
		panic("missing issuer")
	}
	if notifier == nil {
		panic("missing notifier")
	}
	if tickets == nil {
		panic("missing tickets repository")
	}

	return Service{
		ledger:   ledger,
		issuer:   issuer,
		notifier: notifier,
		tickets:  tickets,
	}
}

type paymentIntentPayload struct {
	ID           string `json:"id"`
	ReceiptEmail string `json:"receipt_email"`
	Amount       int64  `json:"amount"`
}

func (s Service) Handle(ctx context.Context, event entity.PaymentEvent) error {
	logger := log.FromContext(ctx).WithField("event_id", event.ID)

	processed, err := s.ledger.IsProcessed(ctx, event.ID)
	if err != nil {
		return err
	}
	if processed {
		logger.Info("Event already processed")
		return nil
	}

	switch event.Type {
	case entity.PaymentEventTypePaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, event)
	default:
		logger.WithField("event_type", event.Type).Info("Unhandled event type")
		return nil
	}
}

func (s Service) handlePaymentSucceeded(ctx context.Context, event entity.PaymentEvent) error {
	var intent paymentIntentPayload
	if err := json.Unmarshal(event.Payload, &intent); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedEvent, err)
	}
	if intent.ID == "" || intent.ReceiptEmail == "" {
		return fmt.Errorf("%w: missing payment id or receipt email", ErrMalformedEvent)
	}

	ticket, err := s.issuer.Issue(ctx, intent.ReceiptEmail, intent.ID, intent.Amount)
	if err != nil {
		return fmt.Errorf("could not issue ticket: %w", err)
	}

	// a re-delivered event may find the email already out from a previous
	// partially completed attempt
	if !ticket.NotificationSent {
		if err := s.notifier.SendTicket(ctx, ticket); err != nil {
			return fmt.Errorf("could not send ticket: %w", err)
		}
		if err := s.tickets.MarkNotificationSent(ctx, ticket.PaymentReference); err != nil {
			return err
		}
	}

	return s.ledger.MarkProcessed(ctx, event.ID, entity.TicketIssued{
		Header:           entity.NewEventHeader(),
		RedemptionCode:   ticket.RedemptionCode,
		Email:            ticket.Email,
		PaymentReference: ticket.PaymentReference,
		AmountCents:      ticket.AmountCents,
	})
}
