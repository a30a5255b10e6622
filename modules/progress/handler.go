package progress

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; tighten to the storefront domain in production.
		return true
	},
}

// RegisterRoutes wires the progress WebSocket endpoint.
func (h *Hub) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/progress/{correlationId}", h.handleWatch)
}

// handleWatch upgrades the connection and streams progress events for one
// correlation ID until the client disconnects.
func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	correlationID := mux.Vars(r)["correlationId"]
	if correlationID == "" {
		http.Error(w, "correlationId required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, 16)}
	h.addClient(correlationID, c)

	go h.writePump(correlationID, c)
	h.readPump(correlationID, c)
}

// writePump serializes events to the socket. All writes, pings included, go
// through here since the connection allows only one writer.
func (h *Hub) writePump(correlationID string, c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("❌ Progress write failed for %s: %v", correlationID, err)
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects.
func (h *Hub) readPump(correlationID string, c *client) {
	defer func() {
		h.removeClient(correlationID, c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
