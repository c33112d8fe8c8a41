package realtime

import (
	"encoding/json"
	"sync"

	"github.com/lumishop/lumishop/internal/logger"
)

// Hub 维护 product_id -> 连接集合，向订阅该商品的连接广播事件。
// 到货事件为尽力送达：连接缓冲区满时丢弃，不阻塞广播方
type Hub struct {
	// productID -> map[clientID]*Client
	rooms map[uint]map[string]*Client
	mu    sync.RWMutex
}

// NewHub 创建 WebSocket hub
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[string]*Client),
	}
}

// Register 将连接加入商品房间
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.ProductID] == nil {
		h.rooms[c.ProductID] = make(map[string]*Client)
	}
	h.rooms[c.ProductID][c.ID] = c
	h.mu.Unlock()
	logger.Debugw("ws_client_joined", "client_id", c.ID, "product_id", c.ProductID)
}

// Unregister 将连接移出商品房间
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.ProductID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.ProductID)
		}
	}
	h.mu.Unlock()
	logger.Debugw("ws_client_left", "client_id", c.ID, "product_id", c.ProductID)
}

// Broadcast 向商品房间内所有连接推送事件
func (h *Hub) Broadcast(productID uint, event string, payload any) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// 持锁拷贝房间快照再发送，房间 map 可能被 Register/Unregister 并发改写
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[productID]))
	for _, c := range h.rooms[productID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			// 缓冲已满，丢弃
		}
	}
}

// SubscriberCount 返回商品房间当前连接数
func (h *Hub) SubscriberCount(productID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[productID])
}
