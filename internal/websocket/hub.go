package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Krimson/fatigue-guard/internal/fatigue"
)

// Hub управляет WebSocket соединениями подписчиков хода анализа
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для отмены регистрации клиентов
	unregister chan *Client

	mu sync.RWMutex
}

// Client представляет WebSocket клиента, подписанного на один анализ
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send chan []byte

	// ID анализа для фильтрации сообщений
	analysisID string
}

// ProgressMessage — одна точка хода анализа для фронтенда
type ProgressMessage struct {
	AnalysisID string  `json:"analysis_id"`
	FrameIndex int     `json:"frame_index"`
	Score      float64 `json:"score"`
	BufferMean float64 `json:"buffer_mean"`
	Level      string  `json:"level"`
	Status     string  `json:"status"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене следует проверять домен
		return true
	},
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run запускает Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client registered: %p, analysis: %s", client, client.analysisID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client unregistered: %p", client)
		}
	}
}

// BroadcastProgress отправляет точку хода анализа подписчикам
func (h *Hub) BroadcastProgress(analysisID string, sample fatigue.Sample) {
	msg := ProgressMessage{
		AnalysisID: analysisID,
		FrameIndex: sample.FrameIndex,
		Score:      sample.Score,
		BufferMean: sample.BufferMean,
		Level:      sample.Level,
		Status:     "processing",
	}
	h.send(analysisID, msg)
}

// BroadcastCompleted отправляет итог анализа подписчикам
func (h *Hub) BroadcastCompleted(analysisID string, result fatigue.Result) {
	msg := ProgressMessage{
		AnalysisID: analysisID,
		Score:      result.Score,
		BufferMean: result.Score,
		Level:      result.Level,
		Status:     "completed",
	}
	h.send(analysisID, msg)
}

func (h *Hub) send(analysisID string, msg ProgressMessage) {
	message, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal progress message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.analysisID != "" && client.analysisID != analysisID {
			continue
		}
		select {
		case client.send <- message:
		default:
			log.Printf("[WARN] Client send buffer full, dropping message")
		}
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	analysisID := r.URL.Query().Get("analysis_id")

	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 256),
		analysisID: analysisID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump обрабатывает входящие сообщения от клиента
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[ERROR] Failed to write message: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
