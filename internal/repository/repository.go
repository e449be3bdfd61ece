package repository

import (
	"tribuna/internal/database"
)

type Repositories struct {
	Tickets      *TicketRepository
	Bookings     *BookingRepository
	Users        *UserRepository
	Reservations *ReservationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	tickets := NewTicketRepository(db)
	bookings := NewBookingRepository(db)

	return &Repositories{
		Tickets:      tickets,
		Bookings:     bookings,
		Users:        NewUserRepository(db),
		Reservations: NewReservationRepository(db, tickets, bookings),
	}
}
