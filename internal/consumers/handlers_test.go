package consumers

import (
	"context"
	"errors"
	"testing"

	"tribuna/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeTicketSource struct {
	tickets map[int64]*models.Ticket
	err     error
}

func (f *fakeTicketSource) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets[id], nil
}

type fakeIndexer struct {
	indexed []int64
	err     error
}

func (f *fakeIndexer) IndexTicket(ctx context.Context, ticket *models.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, ticket.ID)
	return nil
}

func TestReindexTicketSuccess(t *testing.T) {
	source := &fakeTicketSource{tickets: map[int64]*models.Ticket{
		1: {ID: 1, MatchName: "Final"},
	}}
	indexer := &fakeIndexer{}
	h := NewHandlers(source, indexer)

	assert.True(t, h.reindexTicket(1))
	assert.Equal(t, []int64{1}, indexer.indexed)
}

func TestReindexTicketIndexFailureNotAckable(t *testing.T) {
	source := &fakeTicketSource{tickets: map[int64]*models.Ticket{
		1: {ID: 1, MatchName: "Final"},
	}}
	indexer := &fakeIndexer{err: errors.New("index unavailable")}
	h := NewHandlers(source, indexer)

	// The message must stay unacked so it is redelivered.
	assert.False(t, h.reindexTicket(1))
}

func TestReindexTicketLoadFailureNotAckable(t *testing.T) {
	source := &fakeTicketSource{err: errors.New("db down")}
	h := NewHandlers(source, &fakeIndexer{})

	assert.False(t, h.reindexTicket(1))
}

func TestReindexTicketMissingTicketAckable(t *testing.T) {
	source := &fakeTicketSource{tickets: map[int64]*models.Ticket{}}
	indexer := &fakeIndexer{}
	h := NewHandlers(source, indexer)

	// Nothing to index, nothing to retry.
	assert.True(t, h.reindexTicket(42))
	assert.Empty(t, indexer.indexed)
}

func TestReindexTicketWithoutIndexer(t *testing.T) {
	source := &fakeTicketSource{tickets: map[int64]*models.Ticket{
		1: {ID: 1, MatchName: "Final"},
	}}
	h := NewHandlers(source, nil)

	assert.True(t, h.reindexTicket(1))
}
