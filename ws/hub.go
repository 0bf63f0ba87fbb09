package ws

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vnkhanh/sloka-backend/logger"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 256
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans course change events out to connected websocket clients.
// Course clients follow one course; global clients (the admin dashboard)
// get every event.
type Hub struct {
	clients       map[string]map[*websocket.Conn]*Client
	globalClients map[*websocket.Conn]*Client
	mu            sync.RWMutex
	log           *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:       make(map[string]map[*websocket.Conn]*Client),
		globalClients: make(map[*websocket.Conn]*Client),
		log:           log,
	}
}

type CourseEvent struct {
	Type     string `json:"type"`
	CourseID uint   `json:"course_id"`
	Action   string `json:"action"`
}

func courseTopic(courseID uint) string {
	return strconv.FormatUint(uint64(courseID), 10)
}

// Register subscribes conn to one course and starts its pumps.
func (h *Hub) Register(courseID uint, conn *websocket.Conn) *Client {
	topic := courseTopic(courseID)
	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if _, ok := h.clients[topic]; !ok {
		h.clients[topic] = make(map[*websocket.Conn]*Client)
	}
	h.clients[topic][conn] = client
	h.mu.Unlock()

	go h.writePump(client)
	return client
}

func (h *Hub) RegisterGlobal(conn *websocket.Conn) *Client {
	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.globalClients[conn] = client
	h.mu.Unlock()

	go h.writePump(client)
	return client
}

func (h *Hub) Unregister(courseID uint, conn *websocket.Conn) {
	topic := courseTopic(courseID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[topic]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.clients, topic)
		}
	}
}

func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.globalClients[conn]; ok {
		close(client.Send)
		delete(h.globalClients, conn)
	}
}

// Slow clients drop messages instead of blocking the publisher.
func (h *Hub) broadcast(courseID uint, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[courseTopic(courseID)] {
		select {
		case client.Send <- data:
		default:
		}
	}
	for _, client := range h.globalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// PublishCourseChanged tells followers of the course and every global
// client that the course tree changed.
func (h *Hub) PublishCourseChanged(courseID uint, action string) {
	data, err := json.Marshal(CourseEvent{Type: "course_changed", CourseID: courseID, Action: action})
	if err != nil {
		h.log.Error("marshal course event", "error", err)
		return
	}
	h.broadcast(courseID, data)
}

func (h *Hub) Counts() (course, global int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		course += len(clients)
	}
	return course, len(h.globalClients)
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		_ = client.Conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
		client.Conn.Close()
	}()
	for msg := range client.Send {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
