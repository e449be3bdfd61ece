package models

import "time"

// RegisterRequest - payload for POST /api/auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
	Role      string `json:"role,omitempty"`
}

// LoginRequest - payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse - token plus basic account info
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Surname   string    `json:"surname"`
	Role      string    `json:"role"`
}

// CreateTicketRequest - payload for POST /api/tickets
type CreateTicketRequest struct {
	MatchName        string    `json:"match_name" binding:"required"`
	MatchDescription string    `json:"match_description" binding:"required"`
	MatchDate        time.Time `json:"match_date" binding:"required"`
	ImageURL         string    `json:"image_url"`
	Allocation       int       `json:"allocation" binding:"required,gt=0"`
}

// CreateTicketResponse - id of the created ticket
type CreateTicketResponse struct {
	ID int64 `json:"id"`
}

// ListTicketsResponseItem - one ticket in a catalog listing
type ListTicketsResponseItem struct {
	ID               int64     `json:"id"`
	MatchName        string    `json:"match_name"`
	MatchDescription string    `json:"match_description"`
	MatchDate        time.Time `json:"match_date"`
	ImageURL         string    `json:"image_url"`
	Allocation       int       `json:"allocation"`
	RemainingCount   int       `json:"remaining_count"`
}

// ListTicketsResponse - catalog listing
type ListTicketsResponse []ListTicketsResponseItem

// CreateBookingRequest - payload for POST /api/bookings
type CreateBookingRequest struct {
	TicketID int64 `json:"ticket_id" binding:"required"`
	Count    int   `json:"count" binding:"required,gt=0"`
}

// CreateBookingResponse - id of the created booking
type CreateBookingResponse struct {
	ID int64 `json:"id"`
}

// ListBookingsResponseItem - one booking in a ledger listing
type ListBookingsResponseItem struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	TicketName string    `json:"ticket_name"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name"`
	Count      int       `json:"count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListBookingsResponse - ledger listing
type ListBookingsResponse []ListBookingsResponseItem

// CancelBookingRequest - payload for PATCH /api/bookings/cancel
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// AnalyticsResponse - sales summary for one ticket
type AnalyticsResponse struct {
	TicketID       int64 `json:"ticket_id"`
	Allocation     int   `json:"allocation"`
	RemainingCount int   `json:"remaining_count"`
	SoldCount      int   `json:"sold_count"`
	BookingsCount  int   `json:"bookings_count"`
}
