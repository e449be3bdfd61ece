package handlers

import (
	"net/http"
	"strconv"

	"tribuna/internal/models"

	"github.com/gin-gonic/gin"
)

// Tickets handlers

// CreateTicket - POST /api/tickets (admin only)
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Tickets.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListTickets - GET /api/tickets
// Public catalog listing. The unfiltered listing is served from the Valkey
// cache when possible; filtered requests always hit the service.
func (h *Handlers) ListTickets(c *gin.Context) {
	query := c.Query("query")

	if query == "" && h.valkeyClient != nil {
		if raw, err := h.valkeyClient.GetTicketsListRaw(c.Request.Context()); err == nil {
			c.Data(http.StatusOK, "application/json", raw)
			return
		}
	}

	response, err := h.services.Tickets.List(c.Request.Context(), query)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if query == "" && h.valkeyClient != nil {
		h.valkeyClient.SetTicketsList(c.Request.Context(), response)
	}

	c.JSON(http.StatusOK, response)
}

// ListMyTickets - GET /api/tickets/my (admin only)
func (h *Handlers) ListMyTickets(c *gin.Context) {
	adminID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Tickets.ListByAdmin(c.Request.Context(), adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListTicketBookings - GET /api/tickets/:id/bookings (admin only)
func (h *Handlers) ListTicketBookings(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	adminID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Tickets.BookingsForTicket(c.Request.Context(), ticketID, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTicketAnalytics - GET /api/tickets/:id/analytics (admin only)
func (h *Handlers) GetTicketAnalytics(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	adminID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Tickets.Analytics(c.Request.Context(), ticketID, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
