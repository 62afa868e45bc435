package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests and runs the per-connection session:
// register, handshake, read loop, teardown.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// WS route: /ws
func (h *Handler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	h.hub.Register(conn)

	// a pre-verified token (query param) tags the connection up front;
	// the in-band authenticate message still works and can re-tag later
	if uid := utils.CurrentUserID(c); uid != 0 {
		h.hub.Authenticate(conn, uid, utils.CurrentRole(c))
	}

	go h.readLoop(conn)
}

// readLoop handles inbound messages until the transport closes. A
// malformed message is logged and skipped; it never tears the
// connection down.
func (h *Handler) readLoop(conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read error: %v", err)
			}
			return
		}

		var msg authenticateMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("ws invalid payload: %v", err)
			continue
		}

		switch msg.Type {
		case "authenticate":
			if !msg.Payload.Role.Valid() {
				log.Printf("ws authenticate with unknown role %q", msg.Payload.Role)
				continue
			}
			h.hub.Authenticate(conn, msg.Payload.UserID, msg.Payload.Role)
		default:
			log.Printf("ws unknown message type %q", msg.Type)
		}
	}
}
