package processedevents

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"

	"hambax/entity"
	"hambax/pubsub/bus"
	"hambax/pubsub/outbox"
)

// PostgresRepository is the processed-event ledger. A row's existence means
// the event's side effects have fully completed; the unique constraint on
// event_id is the source of truth for "already processed".
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db is nil")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM processed_events WHERE event_id = $1
	`, eventID)
	if err != nil {
		return false, fmt.Errorf("could not check processed event: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed records the event in the ledger and publishes the TicketIssued
// event through the transactional outbox, so the ledger row and the published
// event commit or roll back together.
//
// A ledger insert that affects no row means a concurrent delivery won the
// race; it is treated as "already processed", not as an error.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, eventID string, issued entity.TicketIssued) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	// ON CONFLICT keeps the transaction usable on a duplicate, unlike a raw
	// unique violation which would abort it and poison the commit
	res, err := tx.ExecContext(ctx, `
		INSERT INTO processed_events (event_id) VALUES ($1)
		ON CONFLICT (event_id) DO NOTHING
	`, eventID)
	if err != nil {
		return fmt.Errorf("could not insert processed event: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// lost the race with a concurrent delivery of the same event; it has
		// already published TicketIssued, so this delivery publishes nothing
		return nil
	}

	outboxPublisher, err := outbox.NewPublisherForTx(tx, log.NewWatermill(log.FromContext(ctx)))
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return err
	}

	if err = eventBus.Publish(ctx, issued); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}
