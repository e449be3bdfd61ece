package api

import (
	"fmt"
	"net/http"

	"tribuna/internal/cache"
	"tribuna/internal/config"
	"tribuna/internal/database"
	"tribuna/internal/handlers"
	"tribuna/internal/logger"
	"tribuna/internal/messaging"
	"tribuna/internal/middleware"
	"tribuna/internal/repository"
	"tribuna/internal/search"
	"tribuna/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API process: database, optional infra clients, services
// and the gin router.
type Server struct {
	router       *gin.Engine
	config       *config.Config
	db           *database.DB
	nats         *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
	searchClient *search.ElasticsearchClient
	services     *service.Services
	repos        *repository.Repositories
}

// NewServer builds a fully wired server. The database is mandatory; NATS,
// Valkey and Elasticsearch are optional and the API degrades without them.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	log := logger.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Warn("NATS unavailable, events disabled", "error", err)
		natsClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		log.Warn("Valkey unavailable, listing cache disabled", "error", err)
		valkeyClient = nil
	}

	searchClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Warn("Elasticsearch unavailable, search disabled", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg.JWT, searchClient, natsClient, valkeyClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:       router,
		config:       cfg,
		db:           db,
		nats:         natsClient,
		valkeyClient: valkeyClient,
		searchClient: searchClient,
		services:     services,
		repos:        repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes wires all API routes.
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkeyClient)

	api := s.router.Group("/api")
	{
		// Public endpoints
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		api.GET("/tickets", h.ListTickets)

		// Authenticated user endpoints
		bookings := api.Group("/bookings")
		bookings.Use(middleware.JWTAuth(s.config.JWT.Secret))
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		// Admin endpoints
		admin := api.Group("/tickets")
		admin.Use(middleware.JWTAuth(s.config.JWT.Secret), middleware.RequireAdmin())
		{
			admin.POST("", h.CreateTicket)
			admin.GET("/my", h.ListMyTickets)
			admin.GET("/:id/bookings", h.ListTicketBookings)
			admin.GET("/:id/analytics", h.GetTicketAnalytics)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "tribuna-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections.
func (s *Server) Cleanup() error {
	log := logger.Get()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.Close(); err != nil {
			log.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
