package sdk

import "sync"

// RoomAdapter pins a peer to at most one room channel. Joining while already
// attached tears the previous channel down first, so a peer can never appear
// in two rooms at once.
type RoomAdapter struct {
	relay Relay

	mu      sync.Mutex
	current Channel
}

func NewRoomAdapter(relay Relay) *RoomAdapter {
	return &RoomAdapter{relay: relay}
}

func (a *RoomAdapter) Join(roomKey, selfID string) (Channel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		_ = a.current.Close()
		a.current = nil
	}

	ch, err := a.relay.Join(roomKey, selfID)
	if err != nil {
		return nil, err
	}

	a.current = ch
	return ch, nil
}

func (a *RoomAdapter) Leave() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return nil
	}
	err := a.current.Close()
	a.current = nil
	return err
}
