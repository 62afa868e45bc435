package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"backend/entity"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// ClientState is the reconnection controller's position in its loop:
// disconnected → connecting → open → disconnected.
type ClientState string

const (
	StateDisconnected ClientState = "disconnected"
	StateConnecting   ClientState = "connecting"
	StateOpen         ClientState = "open"
)

type ClientOptions struct {
	URL string

	InitialDelay time.Duration // first retry delay (default 500ms)
	MaxDelay     time.Duration // retry delay cap (default 30s)
	GrowthFactor float64       // delay multiplier per attempt (default 2.0)
	Jitter       float64       // randomization factor 0..1 (default 0.5)
	MaxAttempts  int           // consecutive failures before giving up (default 10)

	// OnEvent receives every well-formed server event.
	OnEvent func(Event)

	Dialer *websocket.Dialer
}

// Client maintains a single logical connection across drops. An abnormal
// close schedules a redial with bounded exponential backoff; a
// normal-closure close is deliberate teardown and never reconnects.
// After MaxAttempts consecutive failures the client stays disconnected
// until ForceReconnect.
type Client struct {
	opts ClientOptions

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	started  bool
	state    ClientState
	conn     *websocket.Conn
	userID   uint
	role     entity.Role
	hasID    bool
	attempts int
	bo       *backoff.ExponentialBackOff

	wmu sync.Mutex // serializes writes to conn

	force chan struct{}
	done  chan struct{}
}

func NewClient(opts ClientOptions) *Client {
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.GrowthFactor <= 0 {
		opts.GrowthFactor = 2.0
	}
	if opts.Jitter <= 0 {
		opts.Jitter = 0.5
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = opts.InitialDelay
	bo.MaxInterval = opts.MaxDelay
	bo.Multiplier = opts.GrowthFactor
	bo.RandomizationFactor = opts.Jitter
	bo.MaxElapsedTime = 0 // the attempt cap is ours, not the policy's
	bo.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		state:  StateDisconnected,
		bo:     bo,
		force:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the connection loop. Calling it twice is a no-op.
func (c *Client) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()
	go c.run()
}

func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetIdentity records who this client is. If the connection is open the
// authenticate handshake is re-sent immediately, so a role change takes
// effect without reconnecting.
func (c *Client) SetIdentity(userID uint, role entity.Role) {
	c.mu.Lock()
	c.userID, c.role, c.hasID = userID, role, true
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()

	if open && conn != nil {
		c.sendAuthenticate(conn, userID, role)
	}
}

// ForceReconnect resets the backoff and redials, whether the client gave
// up after exhausting its attempts or is currently connected.
func (c *Client) ForceReconnect() {
	c.resetBackoff()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		// abnormal close from our side; the loop redials with fresh backoff
		conn.Close()
		return
	}
	select {
	case c.force <- struct{}{}:
	default:
	}
}

// Close tears the connection down deliberately and cancels any pending
// reconnect timer. The controller does not come back after Close.
func (c *Client) Close() {
	c.cancel()

	c.mu.Lock()
	started := c.started
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		c.wmu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.wmu.Unlock()
		conn.Close()
	}
	// the run loop only exists once Start was called
	if started {
		<-c.done
	}
}

func (c *Client) run() {
	defer close(c.done)

	for {
		if c.ctx.Err() != nil {
			return
		}
		c.setState(StateConnecting)

		conn, resp, err := c.opts.Dialer.DialContext(c.ctx, c.opts.URL, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			c.setState(StateDisconnected)
			if c.ctx.Err() != nil {
				return
			}
			log.Printf("ws client dial error: %v", err)
			if !c.waitRetry() {
				if !c.awaitForce() {
					return
				}
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.state = StateOpen
		c.attempts = 0
		c.bo.Reset()
		hasID, uid, role := c.hasID, c.userID, c.role
		c.mu.Unlock()

		if hasID {
			c.sendAuthenticate(conn, uid, role)
		}

		normal := c.readMessages(conn)

		c.mu.Lock()
		c.conn = nil
		c.state = StateDisconnected
		c.mu.Unlock()
		conn.Close()

		if c.ctx.Err() != nil {
			return
		}
		if normal {
			// deliberate teardown: wait for a manual reconnect, never retry
			if !c.awaitForce() {
				return
			}
			continue
		}
		if !c.waitRetry() {
			if !c.awaitForce() {
				return
			}
		}
	}
}

// readMessages pumps inbound events until the connection dies. It reports
// whether the peer closed with the normal-closure code. A message that
// fails to parse is skipped, not fatal.
func (c *Client) readMessages(conn *websocket.Conn) (normal bool) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return true
			}
			if c.ctx.Err() == nil {
				log.Printf("ws client read error: %v", err)
			}
			return false
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("ws client invalid event: %v", err)
			continue
		}
		if c.opts.OnEvent != nil {
			c.opts.OnEvent(ev)
		}
	}
}

// waitRetry sleeps out the next backoff delay. It returns false once the
// attempt cap is exceeded or the controller is shut down; a manual
// reconnect arriving mid-wait fires immediately with a fresh backoff.
func (c *Client) waitRetry() bool {
	c.mu.Lock()
	c.attempts++
	if c.attempts > c.opts.MaxAttempts {
		c.mu.Unlock()
		log.Printf("ws client giving up after %d attempts", c.opts.MaxAttempts)
		return false
	}
	delay := c.bo.NextBackOff()
	c.mu.Unlock()

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-t.C:
		return true
	case <-c.force:
		c.resetBackoff()
		return true
	}
}

// awaitForce parks a permanently-disconnected controller until a manual
// reconnect or shutdown.
func (c *Client) awaitForce() bool {
	select {
	case <-c.ctx.Done():
		return false
	case <-c.force:
		c.resetBackoff()
		return true
	}
}

func (c *Client) resetBackoff() {
	c.mu.Lock()
	c.attempts = 0
	c.bo.Reset()
	c.mu.Unlock()
}

func (c *Client) setState(s ClientState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) sendAuthenticate(conn *websocket.Conn, userID uint, role entity.Role) {
	msg := authenticateMsg{Type: "authenticate"}
	msg.Payload.UserID = userID
	msg.Payload.Role = role

	c.wmu.Lock()
	defer c.wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws client authenticate error: %v", err)
	}
}
