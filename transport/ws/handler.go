package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// subscribeMessage is the only inbound frame: {"event":"subscribe","data":"<taskId>"}
type subscribeMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Handler upgrades the request and runs the connection's read loop.
// Subscription is by task id alone; events carry no more than the
// status poll exposes.
func Handler(hub *Hub, logger zerolog.Logger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		connID := hub.Register(conn)
		defer hub.Unregister(connID)

		for {
			var msg subscribeMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			if msg.Event == "subscribe" && msg.Data != "" {
				hub.Subscribe(connID, msg.Data)
			}
		}
	}
}
