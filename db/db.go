package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	redemption_code VARCHAR(64) PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	payment_reference VARCHAR(255) NOT NULL UNIQUE,
	amount_cents BIGINT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
	qr_code_path TEXT NOT NULL DEFAULT '',
	pdf_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NULL
);

CREATE TABLE IF NOT EXISTS processed_events (
	event_id VARCHAR(255) PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS roles (
	role_id SERIAL PRIMARY KEY,
	name VARCHAR(64) NOT NULL UNIQUE
);

INSERT INTO roles (name) VALUES ('regular_user') ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	role VARCHAR(64) NOT NULL DEFAULT 'regular_user' REFERENCES roles (name)
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}
	return nil
}
