package service

import (
	"tribuna/internal/cache"
	"tribuna/internal/config"
	"tribuna/internal/messaging"
	"tribuna/internal/repository"
	"tribuna/internal/search"
)

// Services aggregates all business services for handler wiring.
type Services struct {
	Auth         *AuthService
	Tickets      *TicketService
	Reservations *ReservationService
}

// NewServices wires the services over the repositories. The search, NATS and
// Valkey clients are optional; passing nil disables that side channel.
func NewServices(repos *repository.Repositories, jwt config.JWTConfig, searchClient *search.ElasticsearchClient, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient) *Services {
	return &Services{
		Auth:         NewAuthService(repos.Users, jwt),
		Tickets:      NewTicketService(repos.Tickets, repos.Bookings, searchClient, natsClient, valkeyClient),
		Reservations: NewReservationService(repos.Reservations, repos.Bookings, natsClient, valkeyClient),
	}
}
