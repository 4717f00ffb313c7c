package redemption

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"hambax/entity"
	"hambax/metrics"
)

// Outcome of a redemption attempt. All three are valid results reported to
// the scanning client, not errors.
type Outcome int

const (
	Admitted Outcome = iota
	AlreadyUsed
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Admitted:
		return "admitted"
	case AlreadyUsed:
		return "already_used"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type TicketsRepository interface {
	// Deactivate atomically flips the active flag and reports whether this
	// call performed the flip.
	Deactivate(ctx context.Context, redemptionCode string) (bool, error)
	GetByRedemptionCode(ctx context.Context, redemptionCode string) (entity.Ticket, error)
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type Engine struct {
	tickets  TicketsRepository
	eventBus EventBus
}

func NewEngine(tickets TicketsRepository, eventBus EventBus) Engine {
	if tickets == nil {
		panic("missing tickets repository")
	}
	if eventBus == nil {
		panic("missing event bus")
	}

	return Engine{
		tickets:  tickets,
		eventBus: eventBus,
	}
}

// Redeem admits a ticket at most once. Two concurrent attempts on the same
// code yield exactly one Admitted; the loser sees AlreadyUsed.
func (e Engine) Redeem(ctx context.Context, redemptionCode string) (Outcome, error) {
	admitted, err := e.tickets.Deactivate(ctx, redemptionCode)
	if err != nil {
		return 0, err
	}

	if admitted {
		metrics.RedemptionAttempts.WithLabelValues(Admitted.String()).Inc()

		err := e.eventBus.Publish(ctx, entity.TicketRedeemed{
			Header:         entity.NewEventHeader(),
			RedemptionCode: redemptionCode,
		})
		if err != nil {
			// the ticket is already deactivated; the audit event is best
			// effort and must not turn an admit into a failure
			log.FromContext(ctx).WithError(err).Error("could not publish TicketRedeemed")
		}

		return Admitted, nil
	}

	_, err = e.tickets.GetByRedemptionCode(ctx, redemptionCode)
	if errors.Is(err, entity.ErrNotFound) {
		metrics.RedemptionAttempts.WithLabelValues(NotFound.String()).Inc()
		return NotFound, nil
	}
	if err != nil {
		return 0, err
	}

	metrics.RedemptionAttempts.WithLabelValues(AlreadyUsed.String()).Inc()
	return AlreadyUsed, nil
}
