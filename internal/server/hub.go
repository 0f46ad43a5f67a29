package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// hub tracks connected websocket clients and fans published frames out to
// them. Clients whose writes fail are dropped on the spot.
type hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
	log     zerolog.Logger
}

func newHub(log zerolog.Logger) *hub {
	return &hub{clients: map[string]*websocket.Conn{}, log: log}
}

// add registers a connection and returns its client ID.
func (h *hub) add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.log.Debug().Str("client", id).Msg("websocket client connected")
	return id
}

// remove unregisters and closes the identified connection.
func (h *hub) remove(id string) {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		h.log.Debug().Str("client", id).Msg("websocket client disconnected")
	}
}

// broadcast writes payload to every client, dropping the ones that fail.
func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = conn.Close()
			delete(h.clients, id)
			h.log.Debug().Err(err).Str("client", id).Msg("dropping websocket client")
		}
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, id)
	}
}
