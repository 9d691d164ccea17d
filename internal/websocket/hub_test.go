package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyugp-assistant/internal/models"
)

type stubTokens map[string]uuid.UUID

func (s stubTokens) Parse(token string) (uuid.UUID, error) {
	id, ok := s[token]
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return id, nil
}

func dial(t *testing.T, server *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func waitForConnections(t *testing.T, h *Hub, id uuid.UUID, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.connections[id]) == n
	}, time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesSessionSockets(t *testing.T) {
	sessionA, sessionB := uuid.New(), uuid.New()
	hub := NewHub(nil, stubTokens{"a": sessionA, "b": sessionB}, nil)
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	connA, _, err := dial(t, server, "a")
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := dial(t, server, "b")
	require.NoError(t, err)
	defer connB.Close()

	waitForConnections(t, hub, sessionA, 1)
	waitForConnections(t, hub, sessionB, 1)

	hub.Publish(context.Background(), sessionA, models.WSMessage{Type: models.WSConversationReset})

	connA.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := connA.ReadMessage()
	require.NoError(t, err)

	var msg models.WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, models.WSConversationReset, msg.Type)

	connB.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err, "other sessions must not receive the update")
}

func TestHub_RejectsBadToken(t *testing.T) {
	hub := NewHub(nil, stubTokens{}, nil)
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	_, resp, err := dial(t, server, "nope")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_RejectsEndedSession(t *testing.T) {
	id := uuid.New()
	hub := NewHub(nil, stubTokens{"a": id}, func(uuid.UUID) bool { return false })
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	_, resp, err := dial(t, server, "a")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHub_CloseSessionDropsSockets(t *testing.T) {
	id := uuid.New()
	hub := NewHub(nil, stubTokens{"a": id}, nil)
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	conn, _, err := dial(t, server, "a")
	require.NoError(t, err)
	defer conn.Close()
	waitForConnections(t, hub, id, 1)

	hub.CloseSession(id)
	waitForConnections(t, hub, id, 0)
}

func TestHub_StalledSocketDoesNotBlockOtherSessions(t *testing.T) {
	stalled, other := uuid.New(), uuid.New()
	hub := NewHub(nil, stubTokens{"stalled": stalled, "other": other}, nil)
	hub.writeWait = 200 * time.Millisecond
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	// Never read from this one so its buffers fill up.
	stalledConn, _, err := dial(t, server, "stalled")
	require.NoError(t, err)
	defer stalledConn.Close()
	otherConn, _, err := dial(t, server, "other")
	require.NoError(t, err)
	defer otherConn.Close()

	waitForConnections(t, hub, stalled, 1)
	waitForConnections(t, hub, other, 1)

	big := models.WSMessage{Type: models.WSDocumentLoaded, Payload: strings.Repeat("x", 1<<20)}
	flooding := make(chan struct{})
	go func() {
		defer close(flooding)
		for i := 0; i < 64; i++ {
			hub.Publish(context.Background(), stalled, big)
		}
	}()

	// Give the flood time to fill the stalled socket.
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), other, models.WSMessage{Type: models.WSConversationReset})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish for another session blocked behind a stalled socket")
	}

	otherConn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := otherConn.ReadMessage()
	require.NoError(t, err)
	var msg models.WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, models.WSConversationReset, msg.Type)

	// The stalled socket hits its write deadline and is dropped.
	select {
	case <-flooding:
	case <-time.After(5 * time.Second):
		t.Fatal("flood did not finish after the stalled socket timed out")
	}
	waitForConnections(t, hub, stalled, 0)
}
