package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"tribuna/internal/database"
	apperrors "tribuna/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Query fragments matched against the statements the transaction issues, in
// the order it issues them.
var (
	lockTicketRe    = regexp.QuoteMeta("SELECT match_name, remaining_count FROM tickets WHERE id = $1 FOR UPDATE")
	snapshotUserRe  = regexp.QuoteMeta("SELECT first_name, surname FROM users WHERE user_id = $1")
	adjustTicketRe  = regexp.QuoteMeta("UPDATE tickets")
	insertBookingRe = regexp.QuoteMeta("INSERT INTO bookings")
	selectBookingRe = regexp.QuoteMeta("SELECT id, ticket_id, ticket_name, user_id, user_name, count, created_at")
	lockTicketIDRe  = regexp.QuoteMeta("SELECT id FROM tickets WHERE id = $1 FOR UPDATE")
	deleteBookingRe = regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")
)

func newMockReservationRepo(t *testing.T) (*ReservationRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := &database.DB{DB: mockDB}
	return NewReservationRepository(db, NewTicketRepository(db), NewBookingRepository(db)), mock
}

func expectReserveSuccess(mock sqlmock.Sqlmock, remaining int, bookingID int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"match_name", "remaining_count"}).AddRow("Final", remaining))
	mock.ExpectQuery(snapshotUserRe).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "surname"}).AddRow("Jane", "Doe"))
	mock.ExpectExec(adjustTicketRe).
		WithArgs(-3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(insertBookingRe).
		WithArgs(int64(1), "Final", int64(5), "Jane Doe", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(bookingID, time.Now()))
	mock.ExpectCommit()
}

func TestReserveCommitsDecrementAndLedgerRow(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	expectReserveSuccess(mock, 10, 7)

	booking, err := repo.Reserve(context.Background(), 1, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, "Final", booking.TicketName)
	assert.Equal(t, "Jane Doe", booking.UserName)
	assert.Equal(t, 3, booking.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownTicketRollsBack(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Reserve(context.Background(), 42, 5, 3)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownUserRollsBack(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"match_name", "remaining_count"}).AddRow("Final", 10))
	mock.ExpectQuery(snapshotUserRe).WithArgs(int64(77)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Reserve(context.Background(), 1, 77, 3)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveInsufficientRollsBack(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"match_name", "remaining_count"}).AddRow("Final", 2))
	mock.ExpectQuery(snapshotUserRe).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "surname"}).AddRow("Jane", "Doe"))
	mock.ExpectRollback()

	_, err := repo.Reserve(context.Background(), 1, 5, 3)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientTickets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveGuardedUpdateZeroRows(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	// The locked read saw enough supply but the guarded update matched no
	// row, so the bound check is the one refusing the decrement.
	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"match_name", "remaining_count"}).AddRow("Final", 10))
	mock.ExpectQuery(snapshotUserRe).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "surname"}).AddRow("Jane", "Doe"))
	mock.ExpectExec(adjustTicketRe).
		WithArgs(-3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Reserve(context.Background(), 1, 5, 3)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientTickets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRetriesSerializationFailure(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	// First attempt aborts with a serialization failure, second commits.
	mock.ExpectBegin()
	mock.ExpectQuery(lockTicketRe).WithArgs(int64(1)).WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	expectReserveSuccess(mock, 10, 8)

	booking, err := repo.Reserve(context.Background(), 1, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveConflictAfterRetriesExhausted(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	for i := 0; i < maxAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(lockTicketRe).WithArgs(int64(1)).WillReturnError(&pq.Error{Code: "40P01"})
		mock.ExpectRollback()
	}

	_, err := repo.Reserve(context.Background(), 1, 5, 3)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func bookingRow(id, ticketID, userID int64, count int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "ticket_id", "ticket_name", "user_id", "user_name", "count", "created_at"}).
		AddRow(id, ticketID, "Final", userID, "Jane Doe", count, time.Now())
}

func TestCancelRestoresCountAndDeletesRow(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	// Lock order: booking row first, then the ticket row, then the credit.
	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingRe).WithArgs(int64(7)).WillReturnRows(bookingRow(7, 1, 5, 3))
	mock.ExpectQuery(lockTicketIDRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(adjustTicketRe).
		WithArgs(3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteBookingRe).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Cancel(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, 3, booking.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownBookingRollsBack(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingRe).WithArgs(int64(123)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 123, 5)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelByNonOwnerRollsBack(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	// The booking belongs to user 5; the tx aborts before touching the
	// ticket row.
	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingRe).WithArgs(int64(7)).WillReturnRows(bookingRow(7, 1, 5, 3))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 7, 6)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOverCreditGuard(t *testing.T) {
	repo, mock := newMockReservationRepo(t)

	// A restore that would push remaining past the allocation matches no
	// row; the tx aborts and the booking row survives.
	mock.ExpectBegin()
	mock.ExpectQuery(selectBookingRe).WithArgs(int64(7)).WillReturnRows(bookingRow(7, 1, 5, 3))
	mock.ExpectQuery(lockTicketIDRe).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(adjustTicketRe).
		WithArgs(3, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 7, 5)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
