package ws

const (
	// Client → relay: replace the sender's presence payload.
	PresenceTrack = "presence.track"

	// Relay → clients: full presence snapshot for the room. Sent to every
	// peer, including the one whose change triggered it.
	PresenceSync = "presence.sync"

	// Client → relay → other clients: ephemeral event, relayed verbatim to
	// everyone in the room except the sender.
	Broadcast = "broadcast"
)
