// Package realtime pushes order events to the kitchen screens over websockets.
package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	EventOrderCreated   = "order_created"
	EventOrderPaid      = "order_paid"
	EventOrderCancelled = "order_cancelled"

	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type Message struct {
	Type  string        `json:"type"`
	Order *models.Order `json:"order"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans order events out to every connected client. A client that cannot
// keep up is dropped.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log.With("component", "realtime"),
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) OrderCreated(o *models.Order)   { h.Broadcast(EventOrderCreated, o) }
func (h *Hub) OrderPaid(o *models.Order)      { h.Broadcast(EventOrderPaid, o) }
func (h *Hub) OrderCancelled(o *models.Order) { h.Broadcast(EventOrderCancelled, o) }

// Handler upgrades the request and keeps the connection until the client leaves.
func (h *Hub) Handler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.log.Info("websocket client connected", "clients", h.Clients())

	go h.writeLoop(cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(cl)
	h.log.Info("websocket client disconnected", "clients", h.Clients())
}

func (h *Hub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(cl)
			return
		}
	}
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *Hub) Broadcast(kind string, o *models.Order) {
	data, err := json.Marshal(Message{Type: kind, Order: o})
	if err != nil {
		h.log.Error("encode order event", "type", kind, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			h.log.Warn("dropping slow websocket client")
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// Clients returns the number of connected clients. The hub logs it on every
// connect and disconnect.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
