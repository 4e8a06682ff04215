package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Nama event yang disiarkan ke dashboard.
const (
	EventOrderNew            = "order:new"
	EventOrderStatusUpdate   = "order:statusUpdate"
	EventOrderDeleted        = "order:deleted"
	EventSalesNew            = "sales:new"
	EventPaymentRequest      = "payment:request"
	EventBillingStatusUpdate = "billing:statusUpdate"
	EventStaffNotification   = "staff:notification"
)

// Message adalah amplop yang dikirim ke setiap client websocket.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Publisher adalah pintu notifikasi untuk handler dan service. Emit
// bersifat fire-and-forget: kegagalan kirim tidak pernah menggagalkan
// operasi yang memicunya.
type Publisher interface {
	Emit(event string, data interface{})
}

// Hub menampung semua client dashboard (admin, staff, chef) dan
// menyiarkan event ke semuanya. Hub dibuat di main dan dioper lewat
// constructor, tidak ada state global.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mu      sync.Mutex
	done    chan struct{}
	once    sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
		done:    make(chan struct{}),
	}
}

// Register menambahkan connection ke set dengan role-nya.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

// Unregister melepaskan connection dan menutupnya.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Emit menyiarkan satu event ke semua client. Client yang gagal ditulisi
// hanya dicatat lalu dilewati.
func (h *Hub) Emit(event string, data interface{}) {
	msg := Message{Event: event, Data: data}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("events: gagal marshal %s: %v", event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("events: gagal kirim %s ke client %s: %v", event, role, err)
			continue
		}
	}
}

// StartKeepalive mengirim ping periodik supaya koneksi idle tidak
// diputus proxy. Client yang gagal di-ping dilepas.
func (h *Hub) StartKeepalive(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				h.pingAll()
			}
		}
	}()
}

func (h *Hub) pingAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Stop menghentikan keepalive dan menutup semua client.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
