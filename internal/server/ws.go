package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/state"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// SceneHandler broadcasts scene frames to the browser renderer via WebSocket.
// Every connected viewer gets the same frames; a viewer that cannot keep up
// just renders fewer of them.
type SceneHandler struct {
	frames  *state.Cell[scene.Frame]
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewSceneHandler creates a SceneHandler reading from the given frame cell.
func NewSceneHandler(frames *state.Cell[scene.Frame]) *SceneHandler {
	h := &SceneHandler{
		frames:  frames,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast ships the latest scene frame to all connected clients at the
// animation rate. Frames are deduplicated by timestamp so an idle animator
// does not flood viewers with identical messages.
func (h *SceneHandler) broadcast() {
	ticker := time.NewTicker(33 * time.Millisecond) // ~30 FPS
	defer ticker.Stop()

	var lastSent int64

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		frame := h.frames.Load()
		if frame.Timestamp == 0 || frame.Timestamp == lastSent {
			continue
		}
		lastSent = frame.Timestamp

		msg, err := json.Marshal(frame)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
