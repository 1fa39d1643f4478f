package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrRoomNotFound = errors.New("room not found")

type Room struct {
	Key     string             `json:"key"`
	Clients map[string]*Client `json:"clients"`

	// presence holds each peer's last tracked payload, keyed by peer id.
	// The relay never parses these.
	presence map[string]json.RawMessage

	mu sync.RWMutex
}

type RoomManager struct {
	rooms    map[string]*Room // room key → Room
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // browser clients connect from arbitrary origins
			},
		},
	}
}

func (rm *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return rm.upgrader.Upgrade(w, r, nil)
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[cl.RoomKey]
	if !ok {
		room = &Room{
			Key:      cl.RoomKey,
			Clients:  make(map[string]*Client),
			presence: make(map[string]json.RawMessage),
		}
		rm.rooms[cl.RoomKey] = room
	}

	// A reconnecting peer replaces its previous connection.
	if prev, exists := room.Clients[cl.ID]; exists && prev != cl {
		close(prev.Message)
	}
	room.Clients[cl.ID] = cl
}

func (rm *RoomManager) RemoveClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[cl.RoomKey]
	if !ok {
		return
	}

	// Only remove if this connection is still the current one for the peer.
	if current, ok := room.Clients[cl.ID]; ok && current == cl {
		delete(room.Clients, cl.ID)
		close(cl.Message)

		room.mu.Lock()
		delete(room.presence, cl.ID)
		room.mu.Unlock()

		if len(room.Clients) == 0 {
			delete(rm.rooms, cl.RoomKey)
		}
	}
}

func (rm *RoomManager) SetPresence(roomKey, peerID string, payload json.RawMessage) {
	rm.mu.RLock()
	room, ok := rm.rooms[roomKey]
	rm.mu.RUnlock()
	if !ok {
		return
	}

	room.mu.Lock()
	room.presence[peerID] = payload
	room.mu.Unlock()
}

// SnapshotPresence returns a copy of the room's presence map. An empty
// snapshot is still meaningful: it tells peers everyone else is gone.
func (rm *RoomManager) SnapshotPresence(roomKey string) PresenceSnapshot {
	rm.mu.RLock()
	room, ok := rm.rooms[roomKey]
	rm.mu.RUnlock()

	snapshot := make(PresenceSnapshot)
	if !ok {
		return snapshot
	}

	room.mu.RLock()
	for id, payload := range room.presence {
		snapshot[id] = payload
	}
	room.mu.RUnlock()

	return snapshot
}

// PeerCount reports how many peers are connected to a room. Zero means the
// room does not exist; empty rooms are reaped on the last disconnect.
func (rm *RoomManager) PeerCount(roomKey string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, ok := rm.rooms[roomKey]
	if !ok {
		return 0
	}
	return len(room.Clients)
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// BroadcastExcept fans an envelope to every peer in the room but the sender.
func (rm *RoomManager) BroadcastExcept(msg *Envelope, exceptID string) error {
	return rm.fanOut(msg, func(cl *Client) bool { return cl.ID != exceptID })
}

// BroadcastAll fans an envelope to every peer in the room, sender included.
func (rm *RoomManager) BroadcastAll(msg *Envelope) error {
	return rm.fanOut(msg, func(cl *Client) bool { return true })
}

func (rm *RoomManager) fanOut(msg *Envelope, include func(*Client) bool) error {
	rm.mu.RLock()
	room, ok := rm.rooms[msg.Room]
	rm.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	for _, cl := range room.Clients {
		if !include(cl) {
			continue
		}
		select {
		case cl.Message <- msg:
		default:
			// Client is too slow – drop the message
			log.Printf("peer %s buffer full, dropping message", cl.ID)
		}
	}
	return nil
}
