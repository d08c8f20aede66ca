package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/hoyyChoi/yeonseubpun/pkg/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgTick             MessageType = "tick"
	MsgScoreUpdate      MessageType = "score_update"
	MsgEvaluationResult MessageType = "evaluation_result"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for live attempts
type Hub struct {
	// Attempt -> connections; a user may watch the same attempt from
	// several tabs.
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection watching one attempt
type Connection struct {
	AttemptID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast to an attempt's viewers
type BroadcastMessage struct {
	AttemptID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.AttemptID] == nil {
				h.conns[conn.AttemptID] = make(map[*Connection]bool)
			}
			h.conns[conn.AttemptID][conn] = true
			h.mu.Unlock()
			logger.Log.Debug("viewer connected", zap.String("attempt", conn.AttemptID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if viewers, ok := h.conns[conn.AttemptID]; ok {
				if viewers[conn] {
					delete(viewers, conn)
					close(conn.Send)
					if len(viewers) == 0 {
						delete(h.conns, conn.AttemptID)
					}
				}
			}
			h.mu.Unlock()
			logger.Log.Debug("viewer disconnected", zap.String("attempt", conn.AttemptID))

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.AttemptID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToAttempt sends a message to everyone watching an attempt
// (implements service.Broadcaster)
func (h *Hub) BroadcastToAttempt(attemptID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		AttemptID: attemptID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
