package api

import (
	"net/http"
	"sync"
	"time"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MessageTypeSnapshot = "snapshot"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type    string              `json:"type"`
	Payload leaderboardResponse `json:"payload"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes every reloaded snapshot to the connected pages. Clients that
// cannot keep up are dropped rather than blocking the reload.
type Hub struct {
	mu      sync.Mutex
	clients map[*hubClient]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*hubClient]struct{}),
	}
}

func (h *Hub) Broadcast(snapshot model.Snapshot) {
	out, err := encodeSnapshot(snapshot)
	if err != nil {
		logger.Logger().Error("failed to encode snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- out:
		default:
			logger.Logger().Warn("dropping slow websocket client")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Serve upgrades the request, registers the client and queues current() as
// its first message. Both happen under the hub lock, so a reload that lands
// after current() is read is broadcast to the new client as well.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, current func() model.Snapshot) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &hubClient{
		conn: conn,
		send: make(chan []byte, clientSendSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	out, err := encodeSnapshot(current())
	if err != nil {
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
		return err
	}
	c.send <- out
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)

	return nil
}

func (h *Hub) remove(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *hubClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writeLoop(c *hubClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Logger().Info("websocket write failed", zap.Error(err))
				h.remove(c)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readLoop only exists to notice the peer going away and to answer pongs.
func (h *Hub) readLoop(c *hubClient) {
	defer h.remove(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Logger().Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}

func encodeSnapshot(snapshot model.Snapshot) ([]byte, error) {
	return json.Marshal(Message{
		Type:    MessageTypeSnapshot,
		Payload: toLeaderboardResponse(snapshot),
	})
}
