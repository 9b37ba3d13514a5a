package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// nil CheckOrigin rejects cross-origin handshakes
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades HTTP requests into live car feeds
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// Serve upgrades the request and streams assignment events of carID to it.
// The caller has already authorized driverID.
func (h *Handler) Serve(c *gin.Context, carID, driverID int64) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied
		h.logger.Warn().Err(err).Int64("carID", carID).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		carID:    carID,
		driverID: driverID,
		logger:   h.logger,
	}
	if !h.hub.attach(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().Int64("carID", carID).Int64("driverID", driverID).
		Str("remoteAddr", conn.RemoteAddr().String()).Msg("Live feed connected")
}
