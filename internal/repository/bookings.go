package repository

import (
	"context"
	"database/sql"

	"tribuna/internal/database"
	"tribuna/internal/models"
)

// BookingRepository owns the booking rows. Insert and Delete take a Queryer
// because they run only inside the reservation transaction; the read
// projections run against the pool directly and never block writers.
type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Insert(ctx context.Context, q database.Queryer, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (ticket_id, ticket_name, user_id, user_name, count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return q.QueryRowContext(ctx, query,
		booking.TicketID,
		booking.TicketName,
		booking.UserID,
		booking.UserName,
		booking.Count,
	).Scan(&booking.ID, &booking.CreatedAt)
}

func (r *BookingRepository) Delete(ctx context.Context, q database.Queryer, id int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, ticket_id, ticket_name, user_id, user_name, count, created_at
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.TicketID,
		&booking.TicketName,
		&booking.UserID,
		&booking.UserName,
		&booking.Count,
		&booking.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `
		SELECT id, ticket_id, ticket_name, user_id, user_name, count, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryBookings(ctx, query, userID)
}

func (r *BookingRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]models.Booking, error) {
	query := `
		SELECT id, ticket_id, ticket_name, user_id, user_name, count, created_at
		FROM bookings
		WHERE ticket_id = $1
		ORDER BY created_at DESC`

	return r.queryBookings(ctx, query, ticketID)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID,
			&b.TicketID,
			&b.TicketName,
			&b.UserID,
			&b.UserName,
			&b.Count,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
