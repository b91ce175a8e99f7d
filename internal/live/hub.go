// Package live broadcasts post events to websocket subscribers, giving
// clients a live feed of publications and likes.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bhuumii/Medium/internal/domain"
)

const (
	writeTimeout = 5 * time.Second

	// clientBuffer is the per-client send queue; a subscriber that cannot
	// drain this many events is dropped rather than blocking the hub.
	clientBuffer = 16
)

// message is the wire format pushed to subscribers.
type message struct {
	Type  string           `json:"type"`
	Event domain.PostEvent `json:"event"`
}

// Hub fans post events out to connected websocket clients. It implements
// domain.EventPublisher so it can be composed with the NATS publisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is public read-only data; any origin may subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// PostPublished broadcasts a post.published event.
func (h *Hub) PostPublished(_ context.Context, event domain.PostEvent) error {
	return h.broadcast("post.published", event)
}

// PostLiked broadcasts a post.liked event.
func (h *Hub) PostLiked(_ context.Context, event domain.PostEvent) error {
	return h.broadcast("post.liked", event)
}

func (h *Hub) broadcast(kind string, event domain.PostEvent) error {
	raw, err := json.Marshal(message{Type: kind, Event: event})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- raw:
		default:
			// Slow subscriber; closing the channel ends its write loop.
			delete(h.clients, ch)
			close(ch)
		}
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket and streams events until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch := make(chan []byte, clientBuffer)
	h.add(ch)
	defer h.remove(ch)

	// Drain reads so close/ping control frames are processed; the stream is
	// one-way and inbound data frames are discarded.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(ch)
				return
			}
		}
	}()

	for raw := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

func (h *Hub) add(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
}

func (h *Hub) remove(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
