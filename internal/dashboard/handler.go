package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mypostula/backend/internal/app/services"
	"github.com/mypostula/backend/internal/realtime"
)

// Handler upgrades authenticated requests into dashboard sessions
type Handler struct {
	hub          *realtime.Hub
	postulations services.PostulationService
	companies    services.CompanyService
	currencies   services.CurrencyService
	logger       zerolog.Logger
}

// NewHandler creates a new dashboard WebSocket handler
func NewHandler(
	hub *realtime.Hub,
	postulations services.PostulationService,
	companies services.CompanyService,
	currencies services.CurrencyService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		hub:          hub,
		postulations: postulations,
		companies:    companies,
		currencies:   currencies,
		logger:       logger,
	}
}

// HandleConnection upgrades the HTTP connection and starts a session
func (h *Handler) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	conn, err := realtime.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	session := NewSession(userID, h.postulations, h.companies, h.currencies, h.hub, h.logger)
	client := realtime.NewClient(conn, session, userID, h.logger)
	session.Bind(client)

	client.Start()
	session.Start(context.Background())

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Dashboard WebSocket connection established")
}
