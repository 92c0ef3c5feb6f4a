package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"foodzone/api-svc/internal/domain"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	feedWriteWait  = 10 * time.Second
	feedBufferSize = 16
	feedProtocol   = "bearer"
)

var upgrader = websocket.Upgrader{
	Subprotocols: []string{feedProtocol},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// OrderHub fans new orders out to the websocket feeds of the sellers whose
// items they contain. Slow clients drop messages instead of blocking.
type OrderHub struct {
	mu      sync.Mutex
	clients map[string]map[*feedClient]struct{}
}

func NewOrderHub() *OrderHub {
	return &OrderHub{clients: make(map[string]map[*feedClient]struct{})}
}

func (h *OrderHub) Clients(email string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[strings.ToLower(email)])
}

func (h *OrderHub) register(email string, c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[email]
	if !ok {
		set = make(map[*feedClient]struct{})
		h.clients[email] = set
	}
	set[c] = struct{}{}
}

func (h *OrderHub) unregister(email string, c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[email]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, email)
	}
}

// NotifyOrder sends every seller in the order their own slice of it.
func (h *OrderHub) NotifyOrder(order domain.Order) {
	for _, seller := range order.Sellers() {
		view, ok := order.ForSeller(seller)
		if !ok {
			continue
		}
		payload, err := json.Marshal(view)
		if err != nil {
			log.Printf("[api-svc] feed encode order %d: %v", order.ID, err)
			continue
		}

		h.mu.Lock()
		for c := range h.clients[seller] {
			select {
			case c.send <- payload:
			default:
				log.Printf("[api-svc] feed for %s is full, dropping order %d", seller, order.ID)
			}
		}
		h.mu.Unlock()
	}
}

func (h *OrderHub) ServeSeller(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(mux.Vars(r)["email"])
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, feedBufferSize)}
	h.register(email, c)
	go c.writePump()

	defer h.unregister(email, c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
