package repository

import (
	"context"
	"database/sql"
	"errors"

	"tribuna/internal/database"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/models"

	"github.com/lib/pq"
)

// maxAttempts bounds the retry loop for serialization failures. Conflicts
// past the bound surface as ErrConflict rather than queueing.
const maxAttempts = 3

// ReservationRepository is the storage arm of the reservation engine. Reserve
// and Cancel each run as one transaction holding a row lock on the ticket, so
// mutations are serialized per ticket id while unrelated tickets proceed in
// parallel. No partial effect is ever visible: the count adjustment and the
// ledger row commit or roll back together.
type ReservationRepository struct {
	db       *database.DB
	tickets  *TicketRepository
	bookings *BookingRepository
}

func NewReservationRepository(db *database.DB, tickets *TicketRepository, bookings *BookingRepository) *ReservationRepository {
	return &ReservationRepository{db: db, tickets: tickets, bookings: bookings}
}

// Reserve atomically checks remaining supply, decrements it and inserts the
// booking row with name snapshots taken inside the same transaction.
func (r *ReservationRepository) Reserve(ctx context.Context, ticketID, userID int64, count int) (*models.Booking, error) {
	for attempt := 1; ; attempt++ {
		booking, err := r.reserveOnce(ctx, ticketID, userID, count)
		if err != nil && isSerializationFailure(err) {
			if attempt < maxAttempts {
				continue
			}
			return nil, apperrors.ErrConflict
		}
		return booking, err
	}
}

func (r *ReservationRepository) reserveOnce(ctx context.Context, ticketID, userID int64, count int) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the ticket row for the duration of the check-then-decrement.
	var matchName string
	var remaining int
	lockQuery := `SELECT match_name, remaining_count FROM tickets WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, lockQuery, ticketID).Scan(&matchName, &remaining)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	// The user must exist because the booking snapshots its display name.
	var firstName, surname string
	userQuery := `SELECT first_name, surname FROM users WHERE user_id = $1`
	err = tx.QueryRowContext(ctx, userQuery, userID).Scan(&firstName, &surname)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if remaining < count {
		return nil, apperrors.ErrInsufficientTickets
	}

	if err := r.tickets.AdjustRemaining(ctx, tx, ticketID, -count); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		TicketID:   ticketID,
		TicketName: matchName,
		UserID:     userID,
		UserName:   firstName + " " + surname,
		Count:      count,
	}

	if err := r.bookings.Insert(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return booking, nil
}

// Cancel atomically restores the booked count to the ticket and deletes the
// booking row. The restore uses booking.count as stored, never a recomputed
// value. A second cancel of the same id sees no row and fails ErrBookingNotFound.
func (r *ReservationRepository) Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	for attempt := 1; ; attempt++ {
		booking, err := r.cancelOnce(ctx, bookingID, userID)
		if err != nil && isSerializationFailure(err) {
			if attempt < maxAttempts {
				continue
			}
			return nil, apperrors.ErrConflict
		}
		return booking, err
	}
}

func (r *ReservationRepository) cancelOnce(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking := &models.Booking{}
	bookingQuery := `
		SELECT id, ticket_id, ticket_name, user_id, user_name, count, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`
	err = tx.QueryRowContext(ctx, bookingQuery, bookingID).Scan(
		&booking.ID,
		&booking.TicketID,
		&booking.TicketName,
		&booking.UserID,
		&booking.UserName,
		&booking.Count,
		&booking.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}

	// Serialize against concurrent reservations on the same ticket.
	var ticketID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM tickets WHERE id = $1 FOR UPDATE`, booking.TicketID).Scan(&ticketID)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.tickets.AdjustRemaining(ctx, tx, booking.TicketID, booking.Count); err != nil {
		return nil, err
	}

	if err := r.bookings.Delete(ctx, tx, booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return booking, nil
}

// isSerializationFailure reports whether err is a transient Postgres
// conflict: serialization_failure (40001) or deadlock_detected (40P01).
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
