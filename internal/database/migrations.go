package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createTicketsTable,
		createBookingsTable,
		createBookingIndexes,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'admin'))
);`

// remaining_count is bounded by the CHECK constraint as a last line of
// defence; the reservation transaction enforces the same bounds explicitly.
const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    match_name VARCHAR(500) NOT NULL,
    match_description TEXT NOT NULL,
    match_date TIMESTAMP NOT NULL,
    image_url VARCHAR(1000) NOT NULL DEFAULT '',
    allocation INTEGER NOT NULL,
    remaining_count INTEGER NOT NULL,
    admin_id INTEGER NOT NULL REFERENCES users(user_id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (allocation > 0),
    CHECK (remaining_count >= 0 AND remaining_count <= allocation)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    ticket_id INTEGER NOT NULL REFERENCES tickets(id),
    ticket_name VARCHAR(500) NOT NULL,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    user_name VARCHAR(200) NOT NULL,
    count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (count > 0)
);`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id);
CREATE INDEX IF NOT EXISTS bookings_ticket_id_idx ON bookings (ticket_id);
CREATE INDEX IF NOT EXISTS tickets_admin_id_idx ON tickets (admin_id);`
