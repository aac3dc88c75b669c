package handler

import (
	"net/http"
	"time"

	"hotel-backoffice/internal/broker"
	"hotel-backoffice/internal/middleware"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second // Time allowed to write a message to the peer
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // 54 seconds
	maxMessageSize = 512                 // feed is one-way; clients only send pongs
)

// EventsHandler streams room inventory changes to back-office dashboards
// over WebSocket. The feed is one-way: clients receive events, they never
// send commands.
type EventsHandler struct {
	events broker.RoomEventBroker
}

func NewEventsHandler(events broker.RoomEventBroker) *EventsHandler {
	return &EventsHandler{
		events: events,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// HandleEvents upgrades the connection and relays room events until the
// client disconnects. Auth and the staff-role check happen in middleware
// before this runs.
func (h *EventsHandler) HandleEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Failed to upgrade connection",
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	events, cancel, err := h.events.Subscribe()
	if err != nil {
		logger.Log.Error("Failed to subscribe to room events",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "event feed unavailable"),
		)
		return
	}
	defer cancel()

	logger.Log.Info("Event feed client connected",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Read pump: discard anything the client sends, detect disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Log.Debug("Event feed read error",
						zap.Error(err),
					)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, open := <-events:
			if !open {
				// Broker shut down; close the feed cleanly.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "event feed closed"),
				)
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				logger.Log.Debug("Failed to send event to client",
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			logger.Log.Info("Event feed client disconnected",
				zap.String("user_id", user.ID.String()),
			)
			return
		}
	}
}
