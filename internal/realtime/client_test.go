package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	commands []Command
	closed   bool
}

func (h *recordingHandler) HandleCommand(ctx context.Context, cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, cmd)
}

func (h *recordingHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func (h *recordingHandler) snapshot() ([]Command, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Command, len(h.commands))
	copy(out, h.commands)
	return out, h.closed
}

// dialTestClient upgrades a connection pair and starts a Client on the
// server side of it.
func dialTestClient(t *testing.T, handler CommandHandler) (*Client, *websocket.Conn) {
	t.Helper()

	connCh := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(conn, handler, 42, zerolog.Nop())
		client.Start()
		connCh <- client
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	client := <-connCh
	return client, peer
}

func TestClient_DeliversCommandsToHandler(t *testing.T) {
	handler := &recordingHandler{}
	_, peer := dialTestClient(t, handler)

	err := peer.WriteMessage(websocket.TextMessage, []byte(`{"action":"set_status","id":7,"status":"accepted"}`))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		cmds, _ := handler.snapshot()
		return len(cmds) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cmds, _ := handler.snapshot()
	assert.Equal(t, ActionSetStatus, cmds[0].Action)
	assert.Equal(t, int64(7), cmds[0].ID)
	assert.Equal(t, "accepted", cmds[0].Status)
}

func TestClient_IgnoresMalformedCommands(t *testing.T) {
	handler := &recordingHandler{}
	_, peer := dialTestClient(t, handler)

	require.NoError(t, peer.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, peer.WriteMessage(websocket.TextMessage, []byte(`{"action":"refresh"}`)))

	require.Eventually(t, func() bool {
		cmds, _ := handler.snapshot()
		return len(cmds) == 1
	}, 2*time.Second, 10*time.Millisecond, "garbage frames are skipped, valid ones still arrive")
}

func TestClient_SendReachesPeer(t *testing.T) {
	handler := &recordingHandler{}
	client, peer := dialTestClient(t, handler)

	require.True(t, client.Send([]byte(`{"type":"ready"}`)))

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := peer.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "ready")
}

func TestClient_HandlerClosedWhenPeerDisconnects(t *testing.T) {
	handler := &recordingHandler{}
	_, peer := dialTestClient(t, handler)

	require.NoError(t, peer.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	peer.Close()

	require.Eventually(t, func() bool {
		_, closed := handler.snapshot()
		return closed
	}, 2*time.Second, 10*time.Millisecond, "the handler must learn the connection is gone")
}

func TestClient_ShutdownIsIdempotent(t *testing.T) {
	handler := &recordingHandler{}
	client, _ := dialTestClient(t, handler)

	client.Shutdown()
	client.Shutdown()

	assert.False(t, client.Send([]byte("late")), "sends after shutdown are dropped")
}
