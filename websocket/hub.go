// Package websocket delivers analysis progress events to connected
// dashboard clients.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to clients.
const (
	EventAnalysisProgress = "analysis_progress"
	EventAnalysisComplete = "analysis_complete"
	EventAnalysisFailed   = "analysis_failed"
)

// ProgressEvent is one analysis status update.
type ProgressEvent struct {
	Type         string `json:"type"`
	AssignmentID string `json:"assignment_id"`
	Stage        string `json:"stage,omitempty"`
	Percent      int    `json:"percent"`
	Message      string `json:"message,omitempty"`
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Client struct {
	Hub          *Hub
	Conn         *websocket.Conn
	Send         chan []byte
	TeacherID    string
	AssignmentID string // empty subscribes to all of the teacher's assignments
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Client registered", "teacher_id", client.TeacherID, "assignment_id", client.AssignmentID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("Client unregistered", "teacher_id", client.TeacherID)
		}
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, teacherID, assignmentID string) *Client {
	client := &Client{
		Hub:          h,
		Conn:         conn,
		Send:         make(chan []byte, 64),
		TeacherID:    teacherID,
		AssignmentID: assignmentID,
	}

	h.register <- client
	return client
}

// Publish delivers a progress event to the teacher's connected
// clients. Clients subscribed to a different assignment are skipped;
// slow clients are dropped.
func (h *Hub) Publish(teacherID string, event ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal progress event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.TeacherID != teacherID {
			continue
		}
		if client.AssignmentID != "" && client.AssignmentID != event.AssignmentID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// ReadPump drains the connection so pings are answered and closes are
// noticed. Clients do not send application messages.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
