package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

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

// Create inserts a new user. A duplicate email returns entity.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, user entity.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (user_id, email, password_hash, verified, role)
		VALUES (:user_id, :email, :password_hash, :verified, :role)
	`, user)

	var postgresError *pq.Error
	if errors.As(err, &postgresError) && postgresError.Code.Name() == "unique_violation" {
		return entity.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var user entity.User
	err := r.db.GetContext(ctx, &user, `
		SELECT user_id, email, password_hash, verified, role
		FROM users
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("could not get user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET verified = TRUE WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("could not mark user verified: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// Delete removes the user, freeing the email for a new registration. Deleting
// an unknown user is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM users WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}
