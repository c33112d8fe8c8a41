package realtime

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lumishop/lumishop/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingIntervalSeconds = 30
	pongWaitSeconds     = 60
	defaultSendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage WebSocket 消息信封
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client 单个 WebSocket 连接，订阅一个商品的到货事件
type Client struct {
	ID        string
	ProductID uint
	hub       *Hub
	conn      *websocket.Conn
	send      chan WSMessage
}

// NewSubscriber 创建不绑定底层连接的订阅者，供进程内消费某商品的到货事件。
// 注册进 hub 后通过 Messages 读取，不用时 Unregister 即可
func NewSubscriber(productID uint, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	return &Client{
		ID:        uuid.New().String(),
		ProductID: productID,
		send:      make(chan WSMessage, buffer),
	}
}

// Messages 返回订阅者的接收通道
func (c *Client) Messages() <-chan WSMessage {
	return c.send
}

// ServeWs 升级 WebSocket 连接并运行收发循环。
// 到货订阅无需登录，按 query 参数 product_id 入房间
func ServeWs(hub *Hub, sendBuffer int) gin.HandlerFunc {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
		if err != nil || productID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnw("websocket_upgrade_failed", "error", err)
			return
		}

		client := &Client{
			ID:        uuid.New().String(),
			ProductID: uint(productID),
			hub:       hub,
			conn:      conn,
			send:      make(chan WSMessage, sendBuffer),
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWaitSeconds * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWaitSeconds * time.Second))
		return nil
	})

	// 订阅方不发业务消息，读循环只负责心跳与断开感知
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWaitSeconds * time.Second))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingIntervalSeconds * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
