package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

func newTestClient(id string, productID uint, buffer int) *Client {
	return &Client{
		ID:        id,
		ProductID: productID,
		send:      make(chan WSMessage, buffer),
	}
}

func TestBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub()
	subscriber := newTestClient("a", 1, 4)
	bystander := newTestClient("b", 2, 4)
	hub.Register(subscriber)
	hub.Register(bystander)

	hub.Broadcast(1, "product_restock", map[string]interface{}{"product_id": 1, "count_in_stock": 5})

	select {
	case msg := <-subscriber.send:
		if msg.Event != "product_restock" {
			t.Fatalf("unexpected event %q", msg.Event)
		}
		var payload struct {
			ProductID    uint `json:"product_id"`
			CountInStock int  `json:"count_in_stock"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			t.Fatalf("unmarshal payload failed: %v", err)
		}
		if payload.ProductID != 1 || payload.CountInStock != 5 {
			t.Fatalf("unexpected payload %+v", payload)
		}
	default:
		t.Fatalf("expected subscriber to receive broadcast")
	}

	select {
	case msg := <-bystander.send:
		t.Fatalf("bystander should not receive broadcast, got %+v", msg)
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := newTestClient("a", 1, 1)
	hub.Register(client)

	// 第二条消息在缓冲满时被丢弃，广播方不阻塞
	hub.Broadcast(1, "product_restock", map[string]interface{}{"n": 1})
	hub.Broadcast(1, "product_restock", map[string]interface{}{"n": 2})

	if got := len(client.send); got != 1 {
		t.Fatalf("expected 1 buffered message, got %d", got)
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := newTestClient("a", 1, 1)

	hub.Register(client)
	if got := hub.SubscriberCount(1); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	hub.Unregister(client)
	if got := hub.SubscriberCount(1); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}

	// 空房间广播不出错
	hub.Broadcast(1, "product_restock", nil)
}

// 广播与连接进出并发执行，配合 -race 验证房间 map 没有并发读写
func TestBroadcastConcurrentWithRegister(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Broadcast(1, "product_restock", map[string]any{"n": i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			client := newTestClient(fmt.Sprintf("c%d", i), 1, 1)
			hub.Register(client)
			hub.Unregister(client)
		}
	}()
	wg.Wait()

	if got := hub.SubscriberCount(1); got != 0 {
		t.Fatalf("expected empty room after churn, got %d", got)
	}
}

func TestBroadcastRawPayload(t *testing.T) {
	hub := NewHub()
	client := newTestClient("a", 3, 1)
	hub.Register(client)

	hub.Broadcast(3, "product_restock", json.RawMessage(`{"product_id":3}`))

	select {
	case msg := <-client.send:
		if string(msg.Data) != `{"product_id":3}` {
			t.Fatalf("unexpected raw data %q", msg.Data)
		}
	default:
		t.Fatalf("expected raw payload delivered")
	}
}
