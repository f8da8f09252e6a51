package handlers

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Hosts are bots, not browsers; access is restricted by CIDR instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// replyEnvelope is one outbound frame on the event stream.
type replyEnvelope struct {
	ID      string              `json:"id"`
	ReplyTo string              `json:"reply_to"`
	ChatID  string              `json:"chat_id,omitempty"`
	Message domain.MessageChain `json:"message"`
}

// errorEnvelope reports a frame that could not be decoded.
type errorEnvelope struct {
	Error string `json:"error"`
}

// wsWriteTimeout bounds one frame write, so a peer that stops reading cannot
// hold the writer lock forever.
const wsWriteTimeout = 10 * time.Second

type wsClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn, writeTimeout: wsWriteTimeout}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// wsReplier answers one event on the shared connection.
type wsReplier struct {
	client *wsClient
	event  domain.Event
}

func (r wsReplier) Reply(_ context.Context, chain domain.MessageChain) error {
	return r.client.writeJSON(replyEnvelope{
		ID:      uuid.NewString(),
		ReplyTo: r.event.ID,
		ChatID:  r.event.ChatID,
		Message: chain,
	})
}

// Stream upgrades to a WebSocket carrying host events. Each text frame is one
// event, handled on its own goroutine; replies are written back as envelopes.
func Stream(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			d.Logger.Warn("websocket upgrade failed", logger.Error(err))
			return
		}
		conn.SetReadLimit(d.EventLimit())

		log := d.Logger.With(logger.String("remote_ip", r.RemoteAddr))
		log.Info("event stream connected")

		client := newWSClient(conn)
		ctx, cancel := context.WithCancel(r.Context())
		var wg sync.WaitGroup

		defer func() {
			cancel()
			wg.Wait()
			utils.MustClose(conn, log, "websocket")
			log.Info("event stream closed")
		}()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn("websocket read failed", logger.Error(err))
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			ev, err := decodeEvent(bytes.NewReader(data))
			if err != nil {
				if werr := client.writeJSON(errorEnvelope{Error: err.Error()}); werr != nil {
					log.Warn("websocket write failed", logger.Error(werr))
					return
				}
				continue
			}

			wg.Add(1)
			go func(ev domain.Event) {
				defer wg.Done()
				if _, err := d.Dispatcher.Handle(ctx, ev, wsReplier{client: client, event: ev}); err != nil {
					log.Warn("event reply failed", logger.String("event_id", ev.ID), logger.Error(err))
				}
			}(ev)
		}
	}
}
