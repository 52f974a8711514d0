package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/swiftship/parcel-service/internal/middleware"
	"github.com/swiftship/parcel-service/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades the connection and streams parcel status
// events for the authenticated user.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		client := &services.Client{
			UserID: user.UserID,
			Conn:   conn,
			Send:   make(chan []byte, 16),
			Hub:    hub,
		}

		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}
}
