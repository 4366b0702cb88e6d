package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection. The flags and the session binding are
// guarded by the server mutex; the send channel is drained by the write pump
// and torn down through safeClose so racing senders never panic the server.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	username string

	queued  bool
	closed  bool
	session *Session
	seat    int
}

func (c *Client) writeLoop() {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
	_ = c.conn.Close()
}

func (c *Client) sendJSON(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}
	safeSend(c.send, msg)
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}
