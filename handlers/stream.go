package handlers

import (
	"net/http"
	"sync"
	"time"

	"mediquery/models"
	"mediquery/services/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StreamHandler pushes session snapshots over websockets so the UI can render
// state transitions without polling. A session may have any number of open
// streams; each committed transition fans out to all of them.
type StreamHandler struct {
	Registry *session.Registry
	Logger   *zap.Logger

	mu   sync.Mutex
	subs map[string]map[chan models.SessionSnapshot]struct{}
}

func NewStreamHandler(registry *session.Registry, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		Registry: registry,
		Logger:   logger,
		subs:     make(map[string]map[chan models.SessionSnapshot]struct{}),
	}
}

// subscribe registers a snapshot channel for a session. The controller's
// listener is installed on first subscription and left in place afterwards; a
// fan-out over an empty set is a no-op.
func (h *StreamHandler) subscribe(id string, ctrl *session.Controller) chan models.SessionSnapshot {
	ch := make(chan models.SessionSnapshot, 8)
	h.mu.Lock()
	set, ok := h.subs[id]
	if !ok {
		set = make(map[chan models.SessionSnapshot]struct{})
		h.subs[id] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	if !ok {
		// The listener runs with the session lock held, so it only enqueues.
		ctrl.SetOnChange(func(snap models.SessionSnapshot) {
			h.fanout(id, snap)
		})
	}
	return ch
}

func (h *StreamHandler) unsubscribe(id string, ch chan models.SessionSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[id]; ok {
		delete(set, ch)
	}
}

// fanout delivers a snapshot to every open stream of the session. Slow
// consumers skip intermediate snapshots rather than stall the session.
func (h *StreamHandler) fanout(id string, snap models.SessionSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Stream upgrades the connection and forwards every committed state
// transition until the client disconnects.
func (h *StreamHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	ctrl, ok := h.Registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	snapshots := h.subscribe(id, ctrl)
	done := make(chan struct{})

	go h.writeLoop(conn, ctrl.Snapshot(), snapshots, done)
	h.readLoop(conn)

	h.unsubscribe(id, snapshots)
	close(done)
	conn.Close()
}

func (h *StreamHandler) writeLoop(conn *websocket.Conn, initial models.SessionSnapshot, snapshots <-chan models.SessionSnapshot, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(initial); err != nil {
		return
	}

	for {
		select {
		case snap := <-snapshots:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *StreamHandler) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
