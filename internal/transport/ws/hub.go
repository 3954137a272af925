package ws

import (
	"encoding/json"
	"log"
	"sync"

	"callpulse/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgScoreRecorded MessageType = "score_recorded"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection represents one subscribed dashboard client
type Connection struct {
	Send chan []byte
	Hub  *Hub
}

// Hub fans processed score summaries out to connected dashboard clients.
// Delivery is best effort: slow clients are dropped, and nothing here blocks
// the webhook path.
type Hub struct {
	conns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
}

// NewHub creates a new score feed hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			log.Printf("[WS] score feed client connected (%d total)", h.clientCount())

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("[WS] score feed client disconnected (%d total)", h.clientCount())

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Slow client; skip rather than stall the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastScore implements service.Broadcaster.
func (h *Hub) BroadcastScore(summary model.ScoreSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		log.Printf("[WS] marshal score summary: %v", err)
		return
	}

	data, err := json.Marshal(Message{Type: MsgScoreRecorded, Payload: payload})
	if err != nil {
		log.Printf("[WS] marshal envelope: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Println("[WS] broadcast buffer full, dropping score update")
	}
}
