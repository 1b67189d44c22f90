package host

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// streamHub fans binary state frames out to connected websocket clients.
// Clients that fail a write are dropped; they are expected to reconnect and
// re-sync from the next frame.
type streamHub struct {
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newStreamHub() *streamHub {
	return &streamHub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
}

func (h *streamHub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					log.Debugf("dropping websocket client: %v", err)
					go func(c *websocket.Conn) {
						h.unregister <- c
					}(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// clientCount reports the number of connected clients.
func (h *streamHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// send queues a frame for broadcast without blocking. Frames are dropped
// when the queue is full; every frame carries the complete state, so a
// dropped one is superseded by the next.
func (h *streamHub) send(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
	}
}

func (h *streamHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}
