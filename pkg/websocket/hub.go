package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Message is the standard envelope broadcast to course rooms.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans course events (new comment, summary ready, enrollment) out to
// every client subscribed to the course's room.
type Hub struct {
	clients     map[*Client]bool
	courseRooms map[string]map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		courseRooms: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	courseUUID string
	done       chan struct{}
}

func (h *Hub) broadcastToCourse(courseUUID string, message []byte) {
	h.mu.RLock()
	room := h.courseRooms[courseUUID]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			log.Printf("Send channel full for client %p; unregistering client", client)
			h.unregister <- client
		}
	}
}

// Broadcast marshals an event and sends it to every client in the course room.
func (h *Hub) Broadcast(courseUUID string, messageType string, data interface{}) {
	msg := Message{
		Type: messageType,
		Data: data,
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.broadcastToCourse(courseUUID, messageBytes)
}

// Run listens on the register and unregister channels and updates the hub
// state accordingly.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if _, exists := h.courseRooms[client.courseUUID]; !exists {
				h.courseRooms[client.courseUUID] = make(map[*Client]bool)
				log.Printf("Created room for course %s", client.courseUUID)
			}
			h.courseRooms[client.courseUUID][client] = true
			log.Printf("Client %p joined course room %s. Total: %d", client, client.courseUUID, len(h.courseRooms[client.courseUUID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				if room, exists := h.courseRooms[client.courseUUID]; exists {
					delete(room, client)
					log.Printf("Client %p left course room %s. Remaining: %d", client, client.courseUUID, len(room))
				}
				delete(h.clients, client)
				close(client.send)
				close(client.done)
			}
			h.mu.Unlock()
		}
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, courseUUID string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		courseUUID: courseUUID,
		done:       make(chan struct{}),
	}
}

// HandleWebSocket upgrades the HTTP connection to a WebSocket and registers
// the client in the course room.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseUUID := vars["courseUuid"]
	if courseUUID == "" {
		http.Error(w, "Missing course uuid", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, courseUUID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so control frames are processed; inbound
// payloads are ignored, the hub is broadcast-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message to client %p: %v", c, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
