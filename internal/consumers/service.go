package consumers

import (
	"context"

	"tribuna/internal/config"
	"tribuna/internal/database"
	"tribuna/internal/logger"
	"tribuna/internal/messaging"
	"tribuna/internal/models"
	"tribuna/internal/repository"
	"tribuna/internal/search"
)

// ConsumerService runs the background workers that keep the search index in
// sync with catalog and ledger events.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	searchClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, indexing disabled", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)

	// A typed nil would dodge the handlers' nil check, so only assign the
	// indexer when the client actually connected.
	var indexer TicketIndexer
	if searchClient != nil {
		indexer = searchClient
	}
	handlers := NewHandlers(repos.Tickets, indexer)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	log := logger.Get()
	log.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.EventTicketCreated, "consumers", cs.handlers.HandleTicketCreated); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventBookingCreated, "consumers", cs.handlers.HandleBookingCreated); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventBookingCancelled, "consumers", cs.handlers.HandleBookingCancelled); err != nil {
		return err
	}

	log.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	log := logger.Get()
	log.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
