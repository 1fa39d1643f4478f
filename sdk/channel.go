package sdk

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/classpulse/classpulse/classroom"
	"github.com/classpulse/classpulse/internal/infrastructure/ws"
)

// Channel is one peer's attachment to a room. Presence snapshots and
// broadcasts both arrive as reducer events through the single OnEvent
// handler.
type Channel interface {
	Topic() string
	Track(payload classroom.PresencePayload) error
	Broadcast(event classroom.Event) error
	OnEvent(handler func(classroom.Event))
	Close() error
}

// Relay hands out room channels. The production implementation speaks
// websocket to relayd; relaytest provides an in-memory one.
type Relay interface {
	Join(roomKey, selfID string) (Channel, error)
}

type WebsocketRelay struct {
	baseURL string
	dialer  websocket.Dialer
}

func NewWebsocketRelay(baseURL string) *WebsocketRelay {
	return &WebsocketRelay{
		baseURL: baseURL,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (r *WebsocketRelay) Join(roomKey, selfID string) (Channel, error) {
	key := classroom.NormalizeRoomKey(roomKey)
	topic, err := classroom.TopicFor(key)
	if err != nil {
		return nil, err
	}

	// Convert http(s) to ws(s)
	wsURL := r.baseURL
	if after, ok := strings.CutPrefix(wsURL, "https://"); ok {
		wsURL = "wss://" + after
	} else if after0, ok0 := strings.CutPrefix(wsURL, "http://"); ok0 {
		wsURL = "ws://" + after0
	}

	path := fmt.Sprintf("%s/ws/rooms/%s?peer=%s",
		strings.TrimSuffix(wsURL, "/"),
		url.PathEscape(key),
		url.QueryEscape(selfID),
	)

	conn, _, err := r.dialer.Dial(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to relay: %w", err)
	}

	ch := &wsChannel{
		conn:    conn,
		roomKey: key,
		topic:   topic,
	}

	go ch.listen()

	return ch, nil
}

type wsChannel struct {
	conn    *websocket.Conn
	roomKey string
	topic   string

	mu      sync.RWMutex // guards handler and closed
	writeMu sync.Mutex
	handler func(classroom.Event)
	closed  bool
}

func (ch *wsChannel) Topic() string {
	return ch.topic
}

func (ch *wsChannel) OnEvent(handler func(classroom.Event)) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.handler = handler
}

func (ch *wsChannel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return nil
	}
	ch.closed = true
	return ch.conn.Close()
}

func (ch *wsChannel) Track(payload classroom.PresencePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return ch.write(&ws.Envelope{Type: ws.PresenceTrack, Room: ch.roomKey, Data: data})
}

func (ch *wsChannel) Broadcast(event classroom.Event) error {
	data, err := encodeBroadcast(event)
	if err != nil {
		return err
	}
	return ch.write(&ws.Envelope{Type: ws.Broadcast, Room: ch.roomKey, Data: data})
}

func (ch *wsChannel) write(env *ws.Envelope) error {
	ch.mu.RLock()
	closed := ch.closed
	ch.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	return ch.conn.WriteJSON(env)
}

func (ch *wsChannel) listen() {
	defer func() { _ = ch.Close() }()

	for {
		var env ws.Envelope
		if err := ch.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error on %s: %v", ch.topic, err)
			}
			return
		}

		var event classroom.Event
		var err error
		switch env.Type {
		case ws.PresenceSync:
			event, err = decodePresenceSync(env.Data)
		case ws.Broadcast:
			event, err = decodeBroadcast(env.Data)
		default:
			continue
		}
		if err != nil {
			log.Printf("[WS] Dropping frame on %s: %v", ch.topic, err)
			continue
		}

		ch.mu.RLock()
		handler := ch.handler
		ch.mu.RUnlock()

		if handler != nil {
			handler(event)
		}
	}
}
