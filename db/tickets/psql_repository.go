package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hambax/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db is nil")
	}
	return &PostgresRepository{db: db}
}

// Store inserts the ticket. Inserting a second ticket for the same payment
// reference is a no-op, which makes issuance safe under webhook re-delivery.
func (r *PostgresRepository) Store(ctx context.Context, ticket entity.Ticket) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tickets
			(redemption_code, email, payment_reference, amount_cents, is_active,
			 notification_sent, qr_code_path, pdf_path, created_at, expires_at)
		VALUES
			(:redemption_code, :email, :payment_reference, :amount_cents, :is_active,
			 :notification_sent, :qr_code_path, :pdf_path, :created_at, :expires_at)
		ON CONFLICT (payment_reference) DO NOTHING
	`, ticket)
	if err != nil {
		return fmt.Errorf("could not store ticket: %w", err)
	}
	return nil
}

// Deactivate flips is_active to false for the given redemption code and
// reports whether this call was the one that flipped it. The conditional
// update is the single atomic check-and-set that guarantees a ticket is
// admitted at most once, no matter how many scanners race on it.
func (r *PostgresRepository) Deactivate(ctx context.Context, redemptionCode string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET is_active = FALSE
		WHERE redemption_code = $1 AND is_active
	`, redemptionCode)
	if err != nil {
		return false, fmt.Errorf("could not deactivate ticket: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *PostgresRepository) GetByRedemptionCode(ctx context.Context, redemptionCode string) (entity.Ticket, error) {
	return r.get(ctx, "redemption_code", redemptionCode)
}

func (r *PostgresRepository) GetByPaymentReference(ctx context.Context, paymentReference string) (entity.Ticket, error) {
	return r.get(ctx, "payment_reference", paymentReference)
}

func (r *PostgresRepository) get(ctx context.Context, column, value string) (entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.GetContext(ctx, &ticket, fmt.Sprintf(`
		SELECT redemption_code, email, payment_reference, amount_cents, is_active,
		       notification_sent, qr_code_path, pdf_path, created_at, expires_at
		FROM tickets
		WHERE %s = $1
	`, column), value)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("could not get ticket: %w", err)
	}
	return ticket, nil
}

// MarkNotificationSent records that the ticket email went out. One-way flag;
// intake consults it to avoid re-mailing on webhook re-delivery.
func (r *PostgresRepository) MarkNotificationSent(ctx context.Context, paymentReference string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET notification_sent = TRUE
		WHERE payment_reference = $1
	`, paymentReference)
	if err != nil {
		return fmt.Errorf("could not mark notification sent: %w", err)
	}
	return nil
}
