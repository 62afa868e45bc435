package ws

import (
	"log"
	"sync"
	"time"

	"backend/entity"

	"github.com/gorilla/websocket"
)

// vars, not consts, so the liveness tests can shrink the timings
var (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// events queued per connection before it is considered dead
const sendBuffer = 32

// client is one live connection. A connection starts untagged (pending)
// and gains an identity when the authenticate handshake arrives.
type client struct {
	hub  *Hub
	conn *websocket.Conn

	// send is never closed; done is the teardown signal, so a broadcast
	// racing an unregister can never hit a closed channel
	send chan Event
	done chan struct{}

	mu     sync.Mutex
	userID uint
	role   entity.Role
	authed bool

	closeOnce sync.Once
}

func (c *client) identity() (uint, entity.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.role, c.authed
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Hub owns the set of live connections. It is the only shared mutable
// structure in the system; business logic talks to it exclusively through
// Broadcast / BroadcastToRole / SendToUser.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds an unauthenticated connection and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = c
	h.mu.Unlock()

	go c.writePump()
}

// Authenticate tags a connection with an identity. Idempotent: a second
// handshake simply overwrites the tag, which is how a role change
// mid-session takes effect.
func (h *Hub) Authenticate(conn *websocket.Conn, userID uint, role entity.Role) {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.mu.Lock()
	c.userID = userID
	c.role = role
	c.authed = true
	c.mu.Unlock()
}

// Unregister removes a connection from the registry. Safe to call more
// than once; the transport close handler and failed sends both end here.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// Broadcast delivers to every open connection, tagged or not.
func (h *Hub) Broadcast(ev Event) {
	h.each(func(c *client) bool { return true }, ev)
}

// BroadcastToRole delivers only to connections tagged with role.
func (h *Hub) BroadcastToRole(ev Event, role entity.Role) {
	h.each(func(c *client) bool {
		_, r, authed := c.identity()
		return authed && r == role
	}, ev)
}

// SendToUser delivers to every connection tagged with userID; a user may
// have several tabs or devices open.
func (h *Hub) SendToUser(ev Event, userID uint) {
	h.each(func(c *client) bool {
		id, _, authed := c.identity()
		return authed && id == userID
	}, ev)
}

// each queues ev on every matching connection. The queue is buffered and
// never blocks: a connection that cannot keep up is dropped so one slow
// consumer cannot stall the rest. Delivery failures never reach the
// business-logic caller.
func (h *Hub) each(match func(*client) bool, ev Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if match(c) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case <-c.done:
			// already torn down; the snapshot raced an unregister
		case c.send <- ev:
		default:
			log.Printf("ws: dropping slow connection %s", c.conn.RemoteAddr())
			go h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.Unregister(c.conn)
	c.conn.Close()
}

// RoleCount reports how many open connections are tagged with role.
func (h *Hub) RoleCount(role entity.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		_, r, authed := c.identity()
		if authed && r == role {
			n++
		}
	}
	return n
}

// ClientCount reports the number of open connections, pending included.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every connection with a normal-closure frame and stops
// accepting registrations. This is the only deliberate teardown; clients
// that see the normal closure stay offline instead of redialing a dead
// server.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*websocket.Conn]*client)
	h.closed = true
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down")
	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.close()
		c.conn.Close()
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings. It exits on teardown or a failed write, and the
// connection closes abnormally either way: a client evicted for a stall
// must come back on its own, so it never gets the normal-closure frame
// that tells a reconnection controller to stay down.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c.conn)
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
