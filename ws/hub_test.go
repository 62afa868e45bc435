package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"backend/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newHubServer runs a real websocket endpoint backed by a fresh hub.
func newHubServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	h := NewHandler(hub)

	r := gin.New()
	r.GET("/ws", h.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Shutdown)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func authenticate(t *testing.T, conn *websocket.Conn, userID uint, role entity.Role) {
	t.Helper()
	msg := authenticateMsg{Type: "authenticate"}
	msg.Payload.UserID = userID
	msg.Payload.Role = role
	require.NoError(t, conn.WriteJSON(msg))
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHubAuthenticateTagsConnection(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.RoleCount(entity.RoleWaiter))

	authenticate(t, conn, 1, entity.RoleWaiter)
	require.Eventually(t, func() bool { return hub.RoleCount(entity.RoleWaiter) == 1 },
		2*time.Second, 10*time.Millisecond)

	// a second handshake re-tags the same connection
	authenticate(t, conn, 1, entity.RoleCashier)
	require.Eventually(t, func() bool { return hub.RoleCount(entity.RoleCashier) == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.RoleCount(entity.RoleWaiter))
}

func TestHubIgnoresBadHandshakes(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	// garbage and unknown roles are skipped, the connection stays up
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	authenticate(t, conn, 1, entity.Role("superuser"))

	authenticate(t, conn, 1, entity.RoleWaiter)
	require.Eventually(t, func() bool { return hub.RoleCount(entity.RoleWaiter) == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubRoleScopedDelivery(t *testing.T) {
	hub, url := newHubServer(t)

	cashier := dial(t, url)
	authenticate(t, cashier, 2, entity.RoleCashier)
	waiter := dial(t, url)
	authenticate(t, waiter, 3, entity.RoleWaiter)
	anon := dial(t, url)

	require.Eventually(t, func() bool {
		return hub.RoleCount(entity.RoleCashier) == 1 &&
			hub.RoleCount(entity.RoleWaiter) == 1 &&
			hub.ClientCount() == 3
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastToRole(NewEvent(entity.EventOrderReadyForPayment,
		OrderReadyForPaymentPayload{OrderID: 12, TableNumber: 5, TotalAmount: 48000}),
		entity.RoleCashier)
	hub.Broadcast(NewEvent(entity.EventOrderStatusChange,
		OrderStatusChangePayload{OrderID: 12, TableNumber: 5, Status: entity.OrderServed}))

	ev := readEvent(t, cashier)
	assert.Equal(t, entity.EventOrderReadyForPayment, ev.Type)
	ev = readEvent(t, cashier)
	assert.Equal(t, entity.EventOrderStatusChange, ev.Type)

	// the waiter and the untagged guest never saw the cashier event:
	// their first frame is already the broadcast
	ev = readEvent(t, waiter)
	assert.Equal(t, entity.EventOrderStatusChange, ev.Type)
	ev = readEvent(t, anon)
	assert.Equal(t, entity.EventOrderStatusChange, ev.Type)
}

func TestHubSendToUserReachesEveryTab(t *testing.T) {
	hub, url := newHubServer(t)

	tab1 := dial(t, url)
	authenticate(t, tab1, 7, entity.RoleWaiter)
	tab2 := dial(t, url)
	authenticate(t, tab2, 7, entity.RoleWaiter)
	other := dial(t, url)
	authenticate(t, other, 8, entity.RoleWaiter)

	require.Eventually(t, func() bool { return hub.RoleCount(entity.RoleWaiter) == 3 },
		2*time.Second, 10*time.Millisecond)

	hub.SendToUser(NewEvent(entity.EventNewOrder, NewOrderPayload{OrderID: 1, TableNumber: 2}), 7)
	hub.Broadcast(NewEvent(entity.EventTableStatusChange,
		TableStatusPayload{TableID: 1, TableNumber: 2, Status: entity.TableOccupied}))

	assert.Equal(t, entity.EventNewOrder, readEvent(t, tab1).Type)
	assert.Equal(t, entity.EventNewOrder, readEvent(t, tab2).Type)
	assert.Equal(t, entity.EventTableStatusChange, readEvent(t, other).Type)
}

// shrinkTimings shortens the keepalive windows for liveness tests. Call
// before the hub server is created; restored on cleanup.
func shrinkTimings(t *testing.T, ping, pong time.Duration) {
	t.Helper()
	oldPing, oldPong := pingPeriod, pongWait
	pingPeriod, pongWait = ping, pong
	t.Cleanup(func() { pingPeriod, pongWait = oldPing, oldPong })
}

func TestHubBroadcastSurvivesConnectionChurn(t *testing.T) {
	hub, url := newHubServer(t)

	// hammer the broadcast path while connections come and go; a
	// delivery racing a teardown must never blow up in the caller
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ev := NewEvent(entity.EventOrderStatusChange,
			OrderStatusChangePayload{OrderID: 1, TableNumber: 1, Status: entity.OrderPlaced})
		for {
			select {
			case <-stop:
				return
			default:
				hub.Broadcast(ev)
			}
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conns := make([]*websocket.Conn, 0, 8)
		for i := 0; i < 8; i++ {
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			require.NoError(t, err)
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			conns = append(conns, conn)
		}
		for _, conn := range conns {
			conn.Close()
		}
	}
	close(stop)
	wg.Wait()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubEvictionClosesAbnormally(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	var victim *client
	for _, c := range hub.clients {
		victim = c
	}
	hub.mu.RUnlock()
	require.NotNil(t, victim)

	// the slow-consumer path from each()
	hub.drop(victim)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	// an evicted client must not see a deliberate-teardown frame, or its
	// reconnection controller would park instead of redialing
	assert.False(t, websocket.IsCloseError(err, websocket.CloseNormalClosure),
		"eviction looked like deliberate teardown: %v", err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubPingPongKeepsIdleConnectionAlive(t *testing.T) {
	shrinkTimings(t, 50*time.Millisecond, 150*time.Millisecond)
	hub, url := newHubServer(t)
	conn := dial(t, url)

	// reading drives the default ping handler, which answers with pongs
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
	time.Sleep(500 * time.Millisecond) // several pong windows
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubReapsUnresponsiveConnection(t *testing.T) {
	shrinkTimings(t, 50*time.Millisecond, 150*time.Millisecond)
	hub, url := newHubServer(t)
	dial(t, url) // never reads, so it never answers pings

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond,
		"a connection that stops ponging should be unregistered")
}

func TestHubUnregistersClosedConnection(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesNormally(t *testing.T) {
	hub, url := newHubServer(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.Shutdown()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure),
		"expected normal closure, got %v", err)
	assert.Zero(t, hub.ClientCount())

	// registrations after shutdown are refused
	late, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		defer late.Close()
		late.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = late.ReadMessage()
		require.Error(t, err)
	}
	assert.Zero(t, hub.ClientCount())
}
