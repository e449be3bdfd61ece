package models

import (
	"time"
)

// User roles. Admins create tickets and query their own sales; regular
// users reserve and cancel bookings.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	Role         string    `json:"role" db:"role"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// DisplayName is the name snapshotted onto bookings made by this user.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.Surname
}

// Ticket represents the purchasable allocation for one match. Allocation and
// AdminID are fixed at creation; RemainingCount is mutated only by the
// reservation transaction.
type Ticket struct {
	ID               int64     `json:"id" db:"id"`
	MatchName        string    `json:"match_name" db:"match_name"`
	MatchDescription string    `json:"match_description" db:"match_description"`
	MatchDate        time.Time `json:"match_date" db:"match_date"`
	ImageURL         string    `json:"image_url" db:"image_url"`
	Allocation       int       `json:"allocation" db:"allocation"`
	RemainingCount   int       `json:"remaining_count" db:"remaining_count"`
	AdminID          int64     `json:"admin_id" db:"admin_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether adminID created this ticket. Admin-scoped queries
// that fail this check return empty results rather than an error.
func (t *Ticket) OwnedBy(adminID int64) bool {
	return t.AdminID == adminID
}

// Booking is the immutable record of one successful reservation.
// TicketName and UserName are snapshots taken at reservation time and stay
// stable against later renames. Cancellation deletes the row.
type Booking struct {
	ID         int64     `json:"id" db:"id"`
	TicketID   int64     `json:"ticket_id" db:"ticket_id"`
	TicketName string    `json:"ticket_name" db:"ticket_name"`
	UserID     int64     `json:"user_id" db:"user_id"`
	UserName   string    `json:"user_name" db:"user_name"`
	Count      int       `json:"count" db:"count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
