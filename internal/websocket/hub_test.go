package websocket

import (
	"encoding/json"
	"testing"

	"github.com/Krimson/fatigue-guard/internal/fatigue"
)

func addClient(h *Hub, analysisID string) *Client {
	c := &Client{send: make(chan []byte, 4), analysisID: analysisID}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

func TestHubFiltersByAnalysisID(t *testing.T) {
	h := NewHub()
	subscribed := addClient(h, "a-1")
	other := addClient(h, "a-2")
	wildcard := addClient(h, "")

	h.BroadcastProgress("a-1", fatigue.Sample{
		FrameIndex: 3,
		Score:      0.4,
		BufferMean: 0.4,
		Level:      fatigue.LevelMedium,
	})

	select {
	case raw := <-subscribed.send:
		var msg ProgressMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal progress message: %v", err)
		}
		if msg.AnalysisID != "a-1" || msg.FrameIndex != 3 || msg.Status != "processing" {
			t.Errorf("unexpected progress message: %+v", msg)
		}
	default:
		t.Fatal("subscribed client did not receive the message")
	}

	select {
	case <-other.send:
		t.Error("client subscribed to another analysis received the message")
	default:
	}

	// пустой analysis_id подписывает на все анализы
	select {
	case <-wildcard.send:
	default:
		t.Error("wildcard client did not receive the message")
	}
}

func TestHubCompletedMessage(t *testing.T) {
	h := NewHub()
	c := addClient(h, "a-1")

	h.BroadcastCompleted("a-1", fatigue.Result{Level: fatigue.LevelHigh, Score: 0.8, Percent: 80})

	select {
	case raw := <-c.send:
		var msg ProgressMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal completed message: %v", err)
		}
		if msg.Status != "completed" || msg.Level != fatigue.LevelHigh {
			t.Errorf("unexpected completed message: %+v", msg)
		}
	default:
		t.Fatal("client did not receive the completion message")
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	h := NewHub()
	c := &Client{send: make(chan []byte), analysisID: "a-1"}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	// небуферизованный канал без читателя: сообщение отбрасывается,
	// вызов возвращается без блокировки
	h.BroadcastProgress("a-1", fatigue.Sample{Level: fatigue.LevelLow})

	select {
	case <-c.send:
		t.Fatal("unexpected delivery on unbuffered channel")
	default:
	}
}
