package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	verifier       websocket.TokenVerifier
	recheck        time.Duration
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
// Open connections re-verify their token every recheck; zero disables that.
func NewWebSocketHandler(hub *websocket.Hub, verifier websocket.TokenVerifier, allowedOrigins []string, recheck time.Duration) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		verifier:       verifier,
		recheck:        recheck,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws?userId=...&token=...
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	userID := strings.TrimSpace(c.QueryParam("userId"))
	if userID == "" {
		log.Debug().Msg("WebSocket connection rejected: missing user id")
		return echo.NewHTTPError(http.StatusBadRequest, "missing userId")
	}

	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	if err := h.verifier.VerifyToken(c.Request().Context(), token); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Debug().Err(err).Str("user_id", userID).Msg("WebSocket connection rejected: invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("WebSocket token verification failed")
		return echo.NewHTTPError(http.StatusBadGateway, "token verification unavailable")
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	session := domain.Session{UserID: userID, Token: token}
	client := websocket.NewClient(conn, session, h.hub, websocket.WithTokenRecheck(h.verifier, h.recheck))
	h.hub.Register(client)

	log.Info().
		Str("user_id", userID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.Serve()

	return nil
}
