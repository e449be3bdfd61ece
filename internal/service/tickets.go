package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tribuna/internal/cache"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/logger"
	"tribuna/internal/messaging"
	"tribuna/internal/models"
	"tribuna/internal/search"
)

// TicketStore provides catalog storage: insert plus plain reads. Remaining
// counts are never written through this interface.
type TicketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
	ListByAdminID(ctx context.Context, adminID int64) ([]models.Ticket, error)
}

// TicketService covers catalog writes by admins and the read-only query
// surface. Reads reflect the latest committed state and never block the
// reservation engine.
type TicketService struct {
	store        TicketStore
	bookings     BookingStore
	searchClient *search.ElasticsearchClient
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
}

func NewTicketService(store TicketStore, bookings BookingStore, searchClient *search.ElasticsearchClient, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient) *TicketService {
	return &TicketService{
		store:        store,
		bookings:     bookings,
		searchClient: searchClient,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
	}
}

// Create inserts a new ticket. The allocation and the owning admin are fixed
// here and never change; remaining starts equal to the allocation.
func (s *TicketService) Create(ctx context.Context, adminID int64, req *models.CreateTicketRequest) (*models.CreateTicketResponse, error) {
	if req.Allocation <= 0 {
		return nil, fmt.Errorf("%w: allocation must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.MatchName) == "" {
		return nil, fmt.Errorf("%w: match_name is required", apperrors.ErrValidation)
	}

	ticket := &models.Ticket{
		MatchName:        req.MatchName,
		MatchDescription: req.MatchDescription,
		MatchDate:        req.MatchDate,
		ImageURL:         req.ImageURL,
		Allocation:       req.Allocation,
		RemainingCount:   req.Allocation,
		AdminID:          adminID,
	}

	if err := s.store.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if s.natsClient != nil {
		event := models.TicketCreatedEvent{
			TicketID:  ticket.ID,
			AdminID:   adminID,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.EventTicketCreated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish ticket created event",
				"error", err,
				"ticket_id", ticket.ID)
		}
	}

	if s.valkeyClient != nil {
		s.valkeyClient.InvalidateTicketsList(ctx)
	}

	return &models.CreateTicketResponse{ID: ticket.ID}, nil
}

// List returns the public catalog. A non-empty query goes through the search
// index when available and degrades to an in-process match otherwise.
func (s *TicketService) List(ctx context.Context, query string) ([]models.ListTicketsResponseItem, error) {
	if query != "" && s.searchClient != nil {
		tickets, err := s.searchClient.SearchTickets(ctx, query, 50)
		if err == nil {
			return toTicketItems(tickets), nil
		}
		// Search trouble must not take the catalog down.
		logger.WithContext(ctx).Error("Ticket search failed, falling back to catalog scan", "error", err)
	}

	tickets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	if query != "" {
		tickets = filterTickets(tickets, query)
	}

	return toTicketItems(tickets), nil
}

// ListByAdmin returns the tickets created by the calling admin.
func (s *TicketService) ListByAdmin(ctx context.Context, adminID int64) ([]models.ListTicketsResponseItem, error) {
	tickets, err := s.store.ListByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin tickets: %w", err)
	}
	return toTicketItems(tickets), nil
}

// BookingsForTicket returns the ledger entries for a ticket the caller owns.
// A missing ticket and a ticket owned by someone else both come back as an
// empty list, so the endpoint reveals nothing about other admins' catalogs.
func (s *TicketService) BookingsForTicket(ctx context.Context, ticketID, adminID int64) ([]models.ListBookingsResponseItem, error) {
	ticket, err := s.store.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil || !ticket.OwnedBy(adminID) {
		return []models.ListBookingsResponseItem{}, nil
	}

	bookings, err := s.bookings.ListByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket bookings: %w", err)
	}

	result := make([]models.ListBookingsResponseItem, len(bookings))
	for i, b := range bookings {
		result[i] = models.ListBookingsResponseItem{
			ID:         b.ID,
			TicketID:   b.TicketID,
			TicketName: b.TicketName,
			UserID:     b.UserID,
			UserName:   b.UserName,
			Count:      b.Count,
			CreatedAt:  b.CreatedAt,
		}
	}

	return result, nil
}

// Analytics summarizes sales for one owned ticket. Unlike the list queries,
// a non-owner gets a not-found error: a zeroed summary would be misleading.
func (s *TicketService) Analytics(ctx context.Context, ticketID, adminID int64) (*models.AnalyticsResponse, error) {
	ticket, err := s.store.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil || !ticket.OwnedBy(adminID) {
		return nil, apperrors.ErrTicketNotFound
	}

	bookings, err := s.bookings.ListByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket bookings: %w", err)
	}

	return &models.AnalyticsResponse{
		TicketID:       ticket.ID,
		Allocation:     ticket.Allocation,
		RemainingCount: ticket.RemainingCount,
		SoldCount:      ticket.Allocation - ticket.RemainingCount,
		BookingsCount:  len(bookings),
	}, nil
}

func toTicketItems(tickets []models.Ticket) []models.ListTicketsResponseItem {
	result := make([]models.ListTicketsResponseItem, len(tickets))
	for i, t := range tickets {
		result[i] = models.ListTicketsResponseItem{
			ID:               t.ID,
			MatchName:        t.MatchName,
			MatchDescription: t.MatchDescription,
			MatchDate:        t.MatchDate,
			ImageURL:         t.ImageURL,
			Allocation:       t.Allocation,
			RemainingCount:   t.RemainingCount,
		}
	}
	return result
}

func filterTickets(tickets []models.Ticket, query string) []models.Ticket {
	q := strings.ToLower(query)
	var filtered []models.Ticket
	for _, t := range tickets {
		if strings.Contains(strings.ToLower(t.MatchName), q) ||
			strings.Contains(strings.ToLower(t.MatchDescription), q) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
