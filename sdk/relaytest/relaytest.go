// Package relaytest provides an in-memory Relay with the same fan-out
// semantics as relayd: presence snapshots go to everyone, broadcasts to
// everyone but the sender. Delivery is synchronous, which makes session
// tests deterministic.
package relaytest

import (
	"sync"

	"github.com/classpulse/classpulse/classroom"
	"github.com/classpulse/classpulse/sdk"
)

type Relay struct {
	mu    sync.Mutex
	rooms map[string]*room
}

type room struct {
	channels map[string]*channel
	presence map[string]classroom.PresencePayload
}

func New() *Relay {
	return &Relay{rooms: make(map[string]*room)}
}

func (r *Relay) Join(roomKey, selfID string) (sdk.Channel, error) {
	key := classroom.NormalizeRoomKey(roomKey)
	topic, err := classroom.TopicFor(key)
	if err != nil {
		return nil, err
	}

	ch := &channel{relay: r, roomKey: key, topic: topic, peerID: selfID}

	r.mu.Lock()
	rm, ok := r.rooms[key]
	if !ok {
		rm = &room{
			channels: make(map[string]*channel),
			presence: make(map[string]classroom.PresencePayload),
		}
		r.rooms[key] = rm
	}
	if prev, exists := rm.channels[selfID]; exists {
		prev.markClosed()
	}
	rm.channels[selfID] = ch
	r.mu.Unlock()

	r.syncPresence(key)
	return ch, nil
}

// PeerCount reports live occupancy, mirroring relayd's room endpoint.
func (r *Relay) PeerCount(roomKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[classroom.NormalizeRoomKey(roomKey)]
	if !ok {
		return 0
	}
	return len(rm.channels)
}

func (r *Relay) track(roomKey, peerID string, payload classroom.PresencePayload) {
	r.mu.Lock()
	if rm, ok := r.rooms[roomKey]; ok {
		rm.presence[peerID] = payload
	}
	r.mu.Unlock()

	r.syncPresence(roomKey)
}

func (r *Relay) leave(roomKey, peerID string, ch *channel) {
	r.mu.Lock()
	if rm, ok := r.rooms[roomKey]; ok {
		if current, exists := rm.channels[peerID]; exists && current == ch {
			delete(rm.channels, peerID)
			delete(rm.presence, peerID)
			if len(rm.channels) == 0 {
				delete(r.rooms, roomKey)
			}
		}
	}
	r.mu.Unlock()

	r.syncPresence(roomKey)
}

// syncPresence snapshots under the lock, then delivers without it so a
// handler may call straight back into the relay.
func (r *Relay) syncPresence(roomKey string) {
	r.mu.Lock()
	rm, ok := r.rooms[roomKey]
	if !ok {
		r.mu.Unlock()
		return
	}

	peers := make(map[string]classroom.PresencePayload, len(rm.presence))
	for id, p := range rm.presence {
		peers[id] = p
	}
	targets := make([]*channel, 0, len(rm.channels))
	for _, ch := range rm.channels {
		targets = append(targets, ch)
	}
	r.mu.Unlock()

	for _, ch := range targets {
		ch.deliver(classroom.PresenceSync{Peers: peers})
	}
}

func (r *Relay) broadcast(roomKey, senderID string, event classroom.Event) {
	r.mu.Lock()
	rm, ok := r.rooms[roomKey]
	if !ok {
		r.mu.Unlock()
		return
	}
	targets := make([]*channel, 0, len(rm.channels))
	for id, ch := range rm.channels {
		if id != senderID {
			targets = append(targets, ch)
		}
	}
	r.mu.Unlock()

	for _, ch := range targets {
		ch.deliver(event)
	}
}

type channel struct {
	relay   *Relay
	roomKey string
	topic   string
	peerID  string

	mu      sync.RWMutex
	handler func(classroom.Event)
	closed  bool
}

func (ch *channel) Topic() string {
	return ch.topic
}

func (ch *channel) OnEvent(handler func(classroom.Event)) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.handler = handler
}

func (ch *channel) Track(payload classroom.PresencePayload) error {
	if ch.isClosed() {
		return sdk.ErrClosed
	}
	ch.relay.track(ch.roomKey, ch.peerID, payload)
	return nil
}

func (ch *channel) Broadcast(event classroom.Event) error {
	if ch.isClosed() {
		return sdk.ErrClosed
	}
	ch.relay.broadcast(ch.roomKey, ch.peerID, event)
	return nil
}

func (ch *channel) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	ch.mu.Unlock()

	ch.relay.leave(ch.roomKey, ch.peerID, ch)
	return nil
}

func (ch *channel) markClosed() {
	ch.mu.Lock()
	ch.closed = true
	ch.mu.Unlock()
}

func (ch *channel) isClosed() bool {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.closed
}

func (ch *channel) deliver(event classroom.Event) {
	ch.mu.RLock()
	handler := ch.handler
	closed := ch.closed
	ch.mu.RUnlock()

	if closed || handler == nil {
		return
	}
	handler(event)
}
