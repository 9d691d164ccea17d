package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"fyugp-assistant/internal/models"
)

const defaultWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenParser resolves a session token to a session id.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// SessionChecker reports whether a session is still live.
type SessionChecker func(id uuid.UUID) bool

// client serialises writes to one socket; gorilla allows a single writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(data []byte, wait time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans session updates out to every socket open for that session. With a
// Redis client, updates travel through pub/sub so any instance can deliver them.
type Hub struct {
	mu          sync.Mutex
	connections map[uuid.UUID][]*client
	redisClient *redis.Client
	tokens      TokenParser
	sessionLive SessionChecker
	cancelFuncs map[uuid.UUID]context.CancelFunc
	writeWait   time.Duration
}

func NewHub(redisClient *redis.Client, tokens TokenParser, sessionLive SessionChecker) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*client),
		redisClient: redisClient,
		tokens:      tokens,
		sessionLive: sessionLive,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		writeWait:   defaultWriteWait,
	}
}

func channelName(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := h.tokens.Parse(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.sessionLive != nil && !h.sessionLive(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(sessionID, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(sessionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// First socket for this session starts the pub/sub subscription
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	log.Printf("WebSocket connected: session %s (total: %d)", sessionID, len(h.connections[sessionID]))
}

// unregisterConnection is safe to call more than once for the same client.
func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *client) {
	c.conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.connections[sessionID]
	found := false
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i:i], conns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	log.Printf("WebSocket disconnected: session %s", sessionID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) snapshot(sessionID uuid.UUID) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*client(nil), h.connections[sessionID]...)
}

// broadcast writes outside the hub lock so a slow socket only stalls its own
// session. A socket whose write fails or times out is dropped.
func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	for _, c := range h.snapshot(sessionID) {
		if err := c.write(data, h.writeWait); err != nil {
			log.Printf("WebSocket write failed, dropping socket: session %s: %v", sessionID, err)
			h.unregisterConnection(sessionID, c)
		}
	}
}

// Publish delivers an update to the session's sockets.
func (h *Hub) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if h.redisClient == nil {
		h.broadcast(sessionID, data)
		return
	}

	if err := h.redisClient.Publish(ctx, channelName(sessionID), data).Err(); err != nil {
		log.Printf("WARNING: publish to %s failed, delivering locally: %v", channelName(sessionID), err)
		h.broadcast(sessionID, data)
	}
}

// CloseSession drops every socket of an ended session.
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	for _, c := range h.snapshot(sessionID) {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"), time.Now().Add(time.Second))
		h.unregisterConnection(sessionID, c)
	}
}
