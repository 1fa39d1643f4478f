package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/classpulse/classpulse/classroom"
)

// Broadcast event discriminators inside the relay's opaque Data field.
const (
	EventBuzzer  = "buzzer"
	EventMessage = "message"
	EventControl = "control"
)

// broadcastPayload is the wire shape of one ephemeral room event. Exactly one
// of the optional fields is set, selected by Event.
type broadcastPayload struct {
	Event   string                 `json:"event"`
	ID      string                 `json:"id,omitempty"`
	Message *classroom.ChatMessage `json:"message,omitempty"`
	Control *classroom.Control     `json:"control,omitempty"`
}

func encodeBroadcast(event classroom.Event) (json.RawMessage, error) {
	var payload broadcastPayload

	switch ev := event.(type) {
	case classroom.BuzzerPress:
		payload = broadcastPayload{Event: EventBuzzer, ID: ev.ID}
	case classroom.MessagePosted:
		msg := ev.Message
		payload = broadcastPayload{Event: EventMessage, Message: &msg}
	case classroom.Control:
		payload = broadcastPayload{Event: EventControl, Control: &ev}
	default:
		return nil, fmt.Errorf("event %T cannot be broadcast", event)
	}

	return json.Marshal(payload)
}

func decodeBroadcast(data json.RawMessage) (classroom.Event, error) {
	var payload broadcastPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("malformed broadcast payload: %w", err)
	}

	switch payload.Event {
	case EventBuzzer:
		return classroom.BuzzerPress{ID: payload.ID}, nil
	case EventMessage:
		if payload.Message == nil {
			return nil, fmt.Errorf("message event without a message")
		}
		return classroom.MessagePosted{Message: *payload.Message}, nil
	case EventControl:
		if payload.Control == nil {
			return nil, fmt.Errorf("control event without a control")
		}
		return *payload.Control, nil
	default:
		return nil, fmt.Errorf("unknown broadcast event %q", payload.Event)
	}
}

// decodePresenceSync turns a raw snapshot into a reducer event. A peer whose
// payload does not parse is skipped rather than failing the whole snapshot.
func decodePresenceSync(data json.RawMessage) (classroom.PresenceSync, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return classroom.PresenceSync{}, fmt.Errorf("malformed presence snapshot: %w", err)
	}

	peers := make(map[string]classroom.PresencePayload, len(raw))
	for id, entry := range raw {
		var payload classroom.PresencePayload
		if err := json.Unmarshal(entry, &payload); err != nil {
			continue
		}
		peers[id] = payload
	}

	return classroom.PresenceSync{Peers: peers}, nil
}
