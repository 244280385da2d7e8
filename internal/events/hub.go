package events

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"warehouse-backend/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub bridges the in-process bus to dashboard websocket clients.
type Hub struct {
	bus        *Bus
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

func NewHub(bus *Bus) *Hub {
	return &Hub{
		bus:     bus,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Run subscribes to the bus and broadcasts every event until the process
// exits. Call in a goroutine from main.
func (h *Hub) Run() {
	ch, _ := h.bus.Subscribe()
	for ev := range ch {
		h.clientsMux.Lock()
		for client := range h.clients {
			client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteJSON(ev); err != nil {
				client.Close()
				delete(h.clients, client)
				metrics.WebsocketClients.Dec()
			}
		}
		h.clientsMux.Unlock()
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away. Inbound messages are drained and ignored.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Events] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()
	metrics.WebsocketClients.Inc()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				metrics.WebsocketClients.Dec()
			}
			h.clientsMux.Unlock()
			break
		}
	}
}

// ClientCount returns the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}
