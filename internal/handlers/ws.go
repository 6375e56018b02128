package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smartkuk/simple-flask/internal/events"
	"github.com/smartkuk/simple-flask/internal/middleware"
)

const wsWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins (CORS is handled at the middleware level).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams registry changes to WebSocket clients.
type EventsHandler struct {
	hub     *events.Hub
	logger  *slog.Logger
	version string
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *events.Hub, logger *slog.Logger, version string) *EventsHandler {
	return &EventsHandler{hub: hub, logger: logger, version: version}
}

// HandleWS upgrades the connection and writes one JSON text frame per
// registry change until the client disconnects or the hub closes.
// Messages sent by the client are read and discarded.
func (h *EventsHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	respHeader := http.Header{}
	respHeader.Set(middleware.VersionHeader, h.version)
	conn, err := upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		h.logger.DebugContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)
	h.logger.DebugContext(ctx, "events subscriber connected",
		"subscriber_id", id,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	// The read loop only exists to notice the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.DebugContext(ctx, "websocket read error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(wsWriteWait))
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.ErrorContext(ctx, "encode event", "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.DebugContext(ctx, "websocket write error", "error", err)
				return
			}
		case <-gone:
			return
		}
	}
}
