package models

import "time"

// NATS event subjects
const (
	EventTicketCreated    = "ticket.created"
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// TicketCreatedEvent is published after an admin creates a ticket; the
// consumer side indexes the ticket for search.
type TicketCreatedEvent struct {
	TicketID  int64     `json:"ticket_id"`
	AdminID   int64     `json:"admin_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent is published after a committed reservation.
type BookingCreatedEvent struct {
	BookingID int64     `json:"booking_id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a committed cancellation. The
// booking row is gone by then; this event is the remaining audit trail.
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
