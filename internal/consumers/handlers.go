package consumers

import (
	"context"
	"encoding/json"

	"tribuna/internal/logger"
	"tribuna/internal/models"

	"github.com/nats-io/stan.go"
)

// TicketSource loads the current ticket row for re-indexing.
type TicketSource interface {
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
}

// TicketIndexer upserts a ticket document into the search index.
type TicketIndexer interface {
	IndexTicket(ctx context.Context, ticket *models.Ticket) error
}

// Handlers processes catalog and ledger events off the queue. Subscriptions
// run in manual ack mode: a message is acked only once the index write
// succeeded, anything else stays unacked and is redelivered. Malformed
// payloads are the exception, they are acked away so they cannot wedge the
// queue.
type Handlers struct {
	tickets TicketSource
	indexer TicketIndexer
}

func NewHandlers(tickets TicketSource, indexer TicketIndexer) *Handlers {
	return &Handlers{
		tickets: tickets,
		indexer: indexer,
	}
}

func (h *Handlers) HandleTicketCreated(m *stan.Msg) {
	var event models.TicketCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal ticket created event", "error", err)
		ack(m)
		return
	}

	logger.Get().Info("Processing ticket created event", "ticket_id", event.TicketID)

	if h.reindexTicket(event.TicketID) {
		ack(m)
	}
}

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking created event", "error", err)
		ack(m)
		return
	}

	logger.Get().Info("Processing booking created event",
		"booking_id", event.BookingID,
		"ticket_id", event.TicketID,
		"count", event.Count)

	// Re-index so the searchable remaining count tracks the ledger.
	if h.reindexTicket(event.TicketID) {
		ack(m)
	}
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking cancelled event", "error", err)
		ack(m)
		return
	}

	logger.Get().Info("Processing booking cancelled event",
		"booking_id", event.BookingID,
		"ticket_id", event.TicketID,
		"count", event.Count)

	if h.reindexTicket(event.TicketID) {
		ack(m)
	}
}

// reindexTicket loads the current ticket row and upserts it into the search
// index. Returns true when the message can be acked.
func (h *Handlers) reindexTicket(ticketID int64) bool {
	ctx := context.Background()

	ticket, err := h.tickets.GetByID(ctx, ticketID)
	if err != nil {
		logger.Get().Error("Failed to load ticket for indexing", "ticket_id", ticketID, "error", err)
		return false
	}

	// Ticket deleted between event and processing: nothing to index.
	if ticket == nil {
		return true
	}

	if h.indexer == nil {
		return true
	}

	if err := h.indexer.IndexTicket(ctx, ticket); err != nil {
		logger.Get().Error("Failed to index ticket", "ticket_id", ticketID, "error", err)
		return false
	}

	return true
}

func ack(m *stan.Msg) {
	if err := m.Ack(); err != nil {
		logger.Get().Error("Failed to ack message", "subject", m.Subject, "error", err)
	}
}
