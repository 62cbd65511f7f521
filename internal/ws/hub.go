// Package ws pushes refresh snapshots to connected dashboard clients over
// websockets. Slow clients drop messages rather than block a refresh.
package ws

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(*http.Request) bool { return true },
	EnableCompression: true,
}

type client struct {
	conn *websocket.Conn
	out  chan any
	done chan struct{}
}

// Hub fans refresh snapshots out to every connected dashboard.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     logger,
	}
}

// Broadcast queues v for every connected client. Clients whose send buffer
// is full miss this message.
func (h *Hub) Broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.out <- v:
		default:
		}
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler upgrades the request and serves the client until it disconnects.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", slog.Any("err", err))
			return
		}
		defer conn.Close()

		cl := &client{conn: conn, out: make(chan any, 64), done: make(chan struct{})}
		h.mu.Lock()
		h.clients[cl] = struct{}{}
		h.mu.Unlock()

		go h.writeLoop(cl)

		// reader: discard inbound frames, detect disconnect
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		})
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		close(cl.done)
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
	}
}

func (h *Hub) writeLoop(cl *client) {
	ping := time.NewTicker(45 * time.Second)
	defer ping.Stop()
	for {
		select {
		case v := <-cl.out:
			if err := cl.conn.WriteJSON(v); err != nil {
				return
			}
		case <-ping.C:
			_ = cl.conn.WriteMessage(websocket.PingMessage, nil)
		case <-cl.done:
			return
		}
	}
}
