package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *connWrapper
	Message chan *Envelope
	ID      string `json:"id"`
	RoomKey string `json:"roomKey"`
}

func NewClient(conn *websocket.Conn, id, roomKey string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *Envelope, 64), // buffered to avoid dead-locks on slow clients
		ID:      id,
		RoomKey: roomKey,
	}
}

func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (peer %s): %v", c.ID, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("dropping malformed frame from peer %s: %v", c.ID, err)
			continue
		}

		// The room on the wire is advisory; the connection pins the room.
		env.Room = c.RoomKey

		switch env.Type {
		case PresenceTrack:
			core.Track() <- &TrackRequest{Client: c, Payload: env.Data}
		case Broadcast:
			core.Broadcast() <- &Inbound{Client: c, Envelope: &env}
		default:
			log.Printf("dropping frame with unknown type %q from peer %s", env.Type, c.ID)
		}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (peer %s): %v", c.ID, err)
			break
		}
	}
}
