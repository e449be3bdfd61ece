package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tribuna/internal/cache"
	apperrors "tribuna/internal/errors"
	"tribuna/internal/logger"
	"tribuna/internal/messaging"
	"tribuna/internal/metrics"
	"tribuna/internal/models"
)

// ReservationStore is the transactional storage the engine drives. Both
// operations are atomic with respect to any concurrent reserve/cancel on the
// same ticket.
type ReservationStore interface {
	Reserve(ctx context.Context, ticketID, userID int64, count int) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
}

// BookingStore provides the read projections over the booking ledger.
type BookingStore interface {
	ListByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	ListByTicketID(ctx context.Context, ticketID int64) ([]models.Booking, error)
}

// ReservationService is the reservation engine: it validates input, runs the
// atomic store operation and handles the side channels (events, metrics,
// cache invalidation). It is the only writer of remaining counts and booking
// rows.
type ReservationService struct {
	store        ReservationStore
	bookings     BookingStore
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
}

func NewReservationService(store ReservationStore, bookings BookingStore, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient) *ReservationService {
	return &ReservationService{
		store:        store,
		bookings:     bookings,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
	}
}

// Reserve books count units of a ticket for the user. Either the decrement
// and the booking row both commit, or neither does.
func (s *ReservationService) Reserve(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", apperrors.ErrValidation)
	}
	if req.TicketID <= 0 {
		return nil, fmt.Errorf("%w: ticket_id must be positive", apperrors.ErrValidation)
	}

	booking, err := s.store.Reserve(ctx, req.TicketID, userID, req.Count)
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.ReservationsTotal.WithLabelValues("success").Inc()

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID: booking.ID,
		TicketID:  booking.TicketID,
		UserID:    booking.UserID,
		Count:     booking.Count,
		Timestamp: time.Now(),
	})
	s.invalidateTicketsList(ctx)

	return &models.CreateBookingResponse{ID: booking.ID}, nil
}

// Cancel reverses a booking exactly once: it restores the booked count and
// removes the ledger row in one transaction. A repeated cancel fails with
// ErrBookingNotFound and credits nothing.
func (s *ReservationService) Cancel(ctx context.Context, userID int64, req *models.CancelBookingRequest) error {
	booking, err := s.store.Cancel(ctx, req.BookingID, userID)
	if err != nil {
		metrics.CancellationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return err
	}
	metrics.CancellationsTotal.WithLabelValues("success").Inc()

	s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID: booking.ID,
		TicketID:  booking.TicketID,
		UserID:    booking.UserID,
		Count:     booking.Count,
		Timestamp: time.Now(),
	})
	s.invalidateTicketsList(ctx)

	return nil
}

// ListUserBookings returns the caller's active bookings, newest first.
func (s *ReservationService) ListUserBookings(ctx context.Context, userID int64) ([]models.ListBookingsResponseItem, error) {
	bookings, err := s.bookings.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
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

func (s *ReservationService) publish(ctx context.Context, subject string, event any) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}

func (s *ReservationService) invalidateTicketsList(ctx context.Context) {
	if s.valkeyClient != nil {
		s.valkeyClient.InvalidateTicketsList(ctx)
	}
}

// outcomeLabel maps engine errors onto bounded metric label values.
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientTickets):
		return "insufficient"
	case errors.Is(err, apperrors.ErrTicketNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "invalid_user"
	case errors.Is(err, apperrors.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
