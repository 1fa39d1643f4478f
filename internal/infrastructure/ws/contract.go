package ws

import "encoding/json"

// Envelope is the only frame the relay speaks. Data is opaque to the server;
// room semantics live entirely in the clients.
type Envelope struct {
	Type string          `json:"type"`
	Room string          `json:"room"`
	Data json.RawMessage `json:"data"`
}

// PresenceSnapshot maps peer id to the last payload that peer tracked.
type PresenceSnapshot map[string]json.RawMessage

func NewPresenceSync(roomKey string, peers PresenceSnapshot) (*Envelope, error) {
	data, err := json.Marshal(peers)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Type: PresenceSync,
		Room: roomKey,
		Data: data,
	}, nil
}

func NewBroadcast(roomKey string, data json.RawMessage) *Envelope {
	return &Envelope{
		Type: Broadcast,
		Room: roomKey,
		Data: data,
	}
}
