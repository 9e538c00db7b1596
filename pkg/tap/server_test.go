package tap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwire/slotwire/pkg/signals"
)

func newTestServer(t *testing.T, cfg ServerConfig) (*Server, *httptest.Server) {
	t.Helper()
	b := NewBroadcaster()
	s := NewServer(cfg, b, nil)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestWebsocketReceivesActivity(t *testing.T) {
	s, ts := newTestServer(t, ServerConfig{})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the subscription to be installed before emitting.
	require.Eventually(t, func() bool {
		return s.b.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	reg := signals.NewRegistry(signals.WithObserver(NewTap(s.b)))
	btn := &bellpush{signals.NewBase(reg)}
	recv := &bellpush{signals.NewBase(reg)}
	pushed := signals.NewSignal[*bellpush, int]("pushed")
	count := signals.NewSlot[*bellpush, int]("count", func(*bellpush, int) {})

	signals.Connect(reg, btn, recv, pushed, count)
	signals.Emit(reg, btn, pushed, 3)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "signal.connect", ev.Type)
	assert.Equal(t, "pushed", ev.Activity.Signal)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "signal.emit", ev.Type)
	assert.Equal(t, 1, ev.Activity.Delivered)
}

func TestConnectionLimit(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{MaxConnections: 1})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestOriginRejected(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{AllowedOrigins: []string{"dashboard.internal"}})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOriginAllowed(t *testing.T) {
	_, ts := newTestServer(t, ServerConfig{AllowedOrigins: []string{"dashboard.internal"}})

	header := http.Header{"Origin": []string{"http://dashboard.internal"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.NoError(t, err)
	conn.Close()
}
