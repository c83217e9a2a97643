package web

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"voice-companion/internal/domain"
)

// Hub pushes session events to connected browsers. It implements
// application.EventSink, so the controller never knows about websockets.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

type event struct {
	Type    string `json:"type"`
	Status  string `json:"status,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
	Message string `json:"message,omitempty"`
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The demo binds to localhost; same-origin enforcement is not
			// meaningful there.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	h.logger.Info("browser connected", "remote", conn.RemoteAddr())

	// Browsers never send anything meaningful; the read loop just detects
	// disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *Hub) StatusChanged(status domain.SessionStatus) {
	h.broadcast(event{Type: "status", Status: string(status)})
}

func (h *Hub) TranscriptReady(text string) {
	h.broadcast(event{Type: "transcript", Text: text})
}

func (h *Hub) ResponseReady(markdown, html string) {
	h.broadcast(event{Type: "response", Text: markdown, HTML: html})
}

func (h *Hub) SessionError(message string) {
	h.broadcast(event{Type: "error", Message: message})
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) broadcast(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn] {
		conn.Close()
		delete(h.conns, conn)
	}
}
