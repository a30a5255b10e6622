package progress

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one progress update pushed to the wizard client.
type Event struct {
	Type          string `json:"type"`
	CorrelationID string `json:"correlationId"`
	Stage         string `json:"stage,omitempty"`
	Format        string `json:"format,omitempty"`
	Message       string `json:"message,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// Event types.
const (
	EventStageStarted  = "stage_started"
	EventStageDone     = "stage_done"
	EventStageFailed   = "stage_failed"
	EventSetReady      = "set_ready"
	EventPurchaseError = "purchase_error"
)

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans progress events out to the clients watching a correlation ID.
// Slow clients drop events rather than block the render pipeline.
type Hub struct {
	mutex   sync.RWMutex
	watched map[string][]*client
}

func NewHub() *Hub {
	return &Hub{watched: make(map[string][]*client)}
}

// Publish delivers an event to every client watching the correlation ID.
// Non-blocking: a full send buffer drops the event for that client. The sends
// happen under the read lock; removeClient closes send channels under the
// write lock, so a channel can never close mid-send.
func (h *Hub) Publish(event Event) {
	event.Timestamp = time.Now().UnixMilli()

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, c := range h.watched[event.CorrelationID] {
		select {
		case c.send <- event:
		default:
			log.Printf("⚠️ Progress client too slow, dropping event %s for %s", event.Type, event.CorrelationID)
		}
	}
}

func (h *Hub) addClient(correlationID string, c *client) {
	h.mutex.Lock()
	h.watched[correlationID] = append(h.watched[correlationID], c)
	count := len(h.watched[correlationID])
	h.mutex.Unlock()

	log.Printf("🔌 Progress watcher connected: %s (watchers: %d)", correlationID, count)
}

func (h *Hub) removeClient(correlationID string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients := h.watched[correlationID]
	for i, existing := range clients {
		if existing == c {
			clients = append(clients[:i], clients[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(clients) == 0 {
		delete(h.watched, correlationID)
	} else {
		h.watched[correlationID] = clients
	}
}
