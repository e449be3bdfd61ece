// Package errors defines the sentinel errors shared by the repository,
// service and handler layers. Handlers translate them into HTTP statuses;
// nothing below the handlers ever collapses them into a bare boolean.
package errors

import "errors"

var (
	// ErrValidation covers malformed input rejected before any store access,
	// e.g. a non-positive booking count or a zero allocation.
	ErrValidation = errors.New("validation failed")

	// ErrTicketNotFound is returned when a referenced ticket does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrBookingNotFound is returned when a referenced booking does not exist,
	// including a booking that has already been cancelled.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound is returned when the booking user id resolves to no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientTickets is returned when the requested count exceeds the
	// ticket's remaining supply.
	ErrInsufficientTickets = errors.New("insufficient tickets remaining")

	// ErrNotOwner is returned when a caller operates on a booking that belongs
	// to another user. The HTTP layer reports it with the same body as
	// ErrBookingNotFound so booking ids cannot be probed.
	ErrNotOwner = errors.New("booking belongs to another user")

	// ErrConflict signals storage-level contention that survived the bounded
	// retry inside the reservation transaction. Safe for the caller to retry.
	ErrConflict = errors.New("storage conflict, retry")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
