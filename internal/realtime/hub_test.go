package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialTestConn returns the server side of a live websocket pair plus the
// client side for reading back what the hub wrote.
func dialTestConn(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverSide <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-serverSide
	t.Cleanup(func() { serverConn.Close() })
	return serverConn, clientConn
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()
	server, _ := dialTestConn(t)

	hub.Register(7, server)
	assert.Equal(t, 1, hub.Connections(7))

	hub.Unregister(7, server)
	assert.Equal(t, 0, hub.Connections(7))
}

func TestPushDeliversToEveryConnection(t *testing.T) {
	hub := NewHub()
	serverA, clientA := dialTestConn(t)
	serverB, clientB := dialTestConn(t)

	hub.Register(7, serverA)
	hub.Register(7, serverB)

	hub.Push(7, "notification", map[string]any{"title": "hello"})

	for _, client := range []*websocket.Conn{clientA, clientB} {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		var event Event
		require.NoError(t, client.ReadJSON(&event))
		assert.Equal(t, "notification", event.Event)
	}
}

func TestPushSkipsOtherUsers(t *testing.T) {
	hub := NewHub()
	server, client := dialTestConn(t)

	hub.Register(7, server)
	hub.Push(8, "notification", nil)

	client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var event Event
	assert.Error(t, client.ReadJSON(&event))
}

// Pushes for one recipient can land from several goroutines at once, for
// example an answer notification overlapping an announcement. Every frame
// must arrive intact.
func TestConcurrentPushToOneUser(t *testing.T) {
	hub := NewHub()
	server, client := dialTestConn(t)

	hub.Register(7, server)

	const pushes = 50
	var wg sync.WaitGroup
	wg.Add(pushes)
	for i := 0; i < pushes; i++ {
		go func(n int) {
			defer wg.Done()
			hub.Push(7, "notification", map[string]any{"seq": n})
		}(i)
	}

	received := 0
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received < pushes {
		var event Event
		require.NoError(t, client.ReadJSON(&event))
		assert.Equal(t, "notification", event.Event)
		received++
	}

	wg.Wait()
	assert.Equal(t, 1, hub.Connections(7))
}

func TestPushFailureUnregistersConnection(t *testing.T) {
	hub := NewHub()
	server, client := dialTestConn(t)

	hub.Register(7, server)
	client.Close()
	server.Close()

	hub.Push(7, "notification", nil)
	assert.Equal(t, 0, hub.Connections(7))
}
