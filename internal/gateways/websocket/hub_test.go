package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"questionboard/internal/utils"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRelay struct {
	mu        sync.Mutex
	handler   func(utils.Event)
	published []utils.Event
}

func (r *fakeRelay) Publish(_ context.Context, e utils.Event) error {
	r.mu.Lock()
	r.published = append(r.published, e)
	handler := r.handler
	r.mu.Unlock()
	if handler != nil {
		handler(e)
	}
	return nil
}

func (r *fakeRelay) Subscribe(_ context.Context, handler func(utils.Event)) (func(), error) {
	r.mu.Lock()
	r.handler = handler
	r.mu.Unlock()
	return func() {}, nil
}

func (r *fakeRelay) publishedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.published)
}

func startHub(t *testing.T, relay Relay) (*Hub, *utils.EventBus, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := utils.NewEventBus()
	hub := NewHub(zap.NewNop(), bus, relay)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	engine := gin.New()
	RegisterRoutes(engine, hub)
	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, bus, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, board string) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + board
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *gorillaws.Conn) utils.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e utils.Event
	require.NoError(t, conn.ReadJSON(&e))
	return e
}

func TestHub_BroadcastsToBoardRoom(t *testing.T) {
	hub, bus, srv, _ := startHub(t, nil)

	general := dial(t, srv, "general")
	other := dial(t, srv, "other")
	require.Eventually(t, func() bool {
		return hub.ClientCount("general") == 1 && hub.ClientCount("other") == 1
	}, 2*time.Second, 10*time.Millisecond)

	bus.Publish("question_created", "general", map[string]interface{}{"id": 1})

	e := readEvent(t, general)
	assert.Equal(t, "question_created", e.Event)
	assert.Equal(t, "general", e.Board)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, e.Data)
	assert.NotZero(t, e.Timestamp)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RelayDeliversOnce(t *testing.T) {
	relay := &fakeRelay{}
	hub, bus, srv, _ := startHub(t, relay)

	conn := dial(t, srv, "general")
	require.Eventually(t, func() bool { return hub.ClientCount("general") == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish("question_voted", "general", nil)

	e := readEvent(t, conn)
	assert.Equal(t, "question_voted", e.Event)
	assert.Equal(t, 1, relay.publishedCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, _, srv, _ := startHub(t, nil)

	conn := dial(t, srv, "general")
	require.Eventually(t, func() bool { return hub.ClientCount("general") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount("general") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, _, srv, cancel := startHub(t, nil)

	conn := dial(t, srv, "general")
	require.Eventually(t, func() bool { return hub.ClientCount("general") == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, gorillaws.IsCloseError(err, gorillaws.CloseGoingAway), "unexpected error: %v", err)
	assert.Equal(t, 0, hub.ClientCount("general"))
}

func TestServeWS_RejectsInvalidBoard(t *testing.T) {
	_, _, srv, _ := startHub(t, nil)

	resp, err := http.Get(srv.URL + "/ws/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHub_RejectsClientsAfterShutdown(t *testing.T) {
	hub, _, srv, cancel := startHub(t, nil)

	cancel()
	require.Eventually(t, hub.isStopped, 2*time.Second, 10*time.Millisecond)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/general"
	_, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, gorillaws.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 0, hub.ClientCount("general"))
}

func TestHub_RegisterAfterStopClosesClient(t *testing.T) {
	hub := NewHub(zap.NewNop(), utils.NewEventBus(), nil)
	hub.closeAll()

	client := &Client{ID: "late", Board: "general", hub: hub, send: make(chan []byte, 1)}
	assert.False(t, hub.Register(client))
	assert.Equal(t, 0, hub.ClientCount("general"))

	_, open := <-client.send
	assert.False(t, open)
}
