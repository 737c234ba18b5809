package notifyhub

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yangpin97/cisco-client-portal/tool"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	maxInbound   = 512 // listeners never send anything meaningful
)

var upgrader = websocket.Upgrader{
	// the feed is a bare change signal, any page may listen
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleNotifyWS subscribes the public page to document changes.
// GET /api/notify-ws
func HandleNotifyWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			tool.DefaultLogger.Debugf("[Notify] Upgrade from %s failed: %v", c.ClientIP(), err)
			return
		}
		defer conn.Close()

		hub.Register(conn)
		defer hub.Unregister(conn)

		done := make(chan struct{})
		defer close(done)
		go hub.keepAlive(conn, done)

		conn.SetReadLimit(maxInbound)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
