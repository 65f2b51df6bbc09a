package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

func startServer(t *testing.T, clients chan<- *Client, activity *atomic.Int32) string {
	t.Helper()
	upgrader := NewUpgrader(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("u1", conn, logger.NewNopLogger())
		clients <- client
		client.Run(context.Background(), func() { activity.Add(1) })
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_DeliverReachesPeer(t *testing.T) {
	clients := make(chan *Client, 1)
	var activity atomic.Int32
	url := startServer(t, clients, &activity)

	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer peer.Close()

	client := <-clients
	assert.NotEmpty(t, client.ID())
	assert.Equal(t, "u1", client.UserID())

	require.NoError(t, client.Deliver(context.Background(), []byte(`{"type":"announcement"}`)))

	_ = peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := peer.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"announcement"}`, string(msg))

	require.NoError(t, peer.WriteMessage(websocket.TextMessage, []byte("hi")))
	assert.Eventually(t, func() bool { return activity.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestClient_DeliverAfterClose(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), done: make(chan struct{})}
	c.Close()
	c.Close()

	assert.ErrorIs(t, c.Deliver(context.Background(), []byte("x")), ErrClientClosed)
}

func TestClient_DeliverSlowConsumer(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), done: make(chan struct{})}

	require.NoError(t, c.Deliver(context.Background(), []byte("first")))
	assert.ErrorIs(t, c.Deliver(context.Background(), []byte("second")), ErrSlowConsumer)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://rewards.example"})

	allowed := httptest.NewRequest(http.MethodGet, "/ws", nil)
	allowed.Header.Set("Origin", "https://rewards.example")
	denied := httptest.NewRequest(http.MethodGet, "/ws", nil)
	denied.Header.Set("Origin", "https://evil.example")

	assert.True(t, up.CheckOrigin(allowed))
	assert.False(t, up.CheckOrigin(denied))
	assert.True(t, NewUpgrader(nil).CheckOrigin(denied))
}
