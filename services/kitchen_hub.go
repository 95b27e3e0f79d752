package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Pushed to every connected kitchen dashboard when an item's status changes.
type ItemStatusEvent struct {
	Kind       string `json:"kind"` // "item.status"
	MealPlanID uint   `json:"meal_plan_id"`
	ItemID     uint   `json:"item_id"`
	FoodName   string `json:"food_name"`
	Prepared   bool   `json:"prepared"`
	Delivered  bool   `json:"delivered"`
}

// KitchenHub fans item status changes out to open dashboard sockets. Unlike
// user-scoped feeds, every kitchen screen sees every change.
type KitchenHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

func NewKitchenHub() *KitchenHub {
	return &KitchenHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *KitchenHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *KitchenHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *KitchenHub) Broadcast(ev ItemStatusEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.Unregister(c)
		}
	}
}

var kitchenHub *KitchenHub

func InitKitchenHub() *KitchenHub {
	kitchenHub = NewKitchenHub()
	return kitchenHub
}

func Kitchen() *KitchenHub { return kitchenHub }

// EmitItemStatus is safe to call from anywhere, including before the hub is
// initialized (tests).
func EmitItemStatus(ev ItemStatusEvent) {
	if kitchenHub == nil {
		return
	}
	ev.Kind = "item.status"
	kitchenHub.Broadcast(ev)
}
