package repository

import (
	"context"
	"database/sql"

	"tribuna/internal/database"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/models"
)

// TicketRepository owns the ticket rows. Inserts and reads are plain;
// remaining_count is only ever changed through AdjustRemaining, inside the
// reservation transaction.
type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (match_name, match_description, match_date, image_url, allocation, remaining_count, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		ticket.MatchName,
		ticket.MatchDescription,
		ticket.MatchDate,
		ticket.ImageURL,
		ticket.Allocation,
		ticket.RemainingCount,
		ticket.AdminID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `
		SELECT id, match_name, match_description, match_date, image_url,
		       allocation, remaining_count, admin_id, created_at, updated_at
		FROM tickets
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.MatchName,
		&ticket.MatchDescription,
		&ticket.MatchDate,
		&ticket.ImageURL,
		&ticket.Allocation,
		&ticket.RemainingCount,
		&ticket.AdminID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) List(ctx context.Context) ([]models.Ticket, error) {
	query := `
		SELECT id, match_name, match_description, match_date, image_url,
		       allocation, remaining_count, admin_id, created_at, updated_at
		FROM tickets
		ORDER BY match_date ASC`

	return r.queryTickets(ctx, query)
}

func (r *TicketRepository) ListByAdminID(ctx context.Context, adminID int64) ([]models.Ticket, error) {
	query := `
		SELECT id, match_name, match_description, match_date, image_url,
		       allocation, remaining_count, admin_id, created_at, updated_at
		FROM tickets
		WHERE admin_id = $1
		ORDER BY match_date ASC`

	return r.queryTickets(ctx, query, adminID)
}

// AdjustRemaining applies delta to remaining_count only if the result stays
// within [0, allocation]. Zero rows affected means the precondition failed:
// oversell for a negative delta, an over-credit for a positive one.
// q is the reservation transaction; the row must already be locked by it.
func (r *TicketRepository) AdjustRemaining(ctx context.Context, q database.Queryer, ticketID int64, delta int) error {
	query := `
		UPDATE tickets
		SET remaining_count = remaining_count + $1, updated_at = NOW()
		WHERE id = $2
		  AND remaining_count + $1 >= 0
		  AND remaining_count + $1 <= allocation`

	res, err := q.ExecContext(ctx, query, delta, ticketID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if delta < 0 {
			return apperrors.ErrInsufficientTickets
		}
		return apperrors.ErrConflict
	}

	return nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		err := rows.Scan(
			&t.ID,
			&t.MatchName,
			&t.MatchDescription,
			&t.MatchDate,
			&t.ImageURL,
			&t.Allocation,
			&t.RemainingCount,
			&t.AdminID,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}
