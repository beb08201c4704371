package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"schedule-service/internal/metrics"
	"schedule-service/internal/middleware"
	"schedule-service/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub    *realtime.Hub
	tokens middleware.TokenValidator
	logger *zap.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, tokens middleware.TokenValidator, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens, logger: logger}
}

// Serve authenticates the connection via the token query parameter,
// upgrades it and runs the read pump until the client goes away.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(userID, claims.Username, conn)

	metrics.RecordWebSocketConnection()
	defer metrics.RecordWebSocketDisconnection()

	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(h.hub, h.logger)
}
