package classroom

// ControlType names the moderation commands a teacher broadcasts. Each one
// is a total overwrite of the field(s) it names.
type ControlType string

const (
	ControlResetBuzzer   ControlType = "RESET_BUZZER"
	ControlLockBuzzer    ControlType = "LOCK_BUZZER"
	ControlResetAll      ControlType = "RESET_ALL"
	ControlUpdateWall    ControlType = "UPDATE_WALL"
	ControlRemoveStudent ControlType = "REMOVE_STUDENT"
)

// Event is one input to the reducer. The same stream of events, applied in
// relay delivery order, yields the same state on every peer.
type Event interface {
	isEvent()
}

// PresenceSync carries a full presence snapshot: peer id → last tracked
// payload for every currently connected peer. There are no deltas.
type PresenceSync struct {
	Peers map[string]PresencePayload
}

// BuzzerPress is the broadcast a student sends when hitting the buzzer.
type BuzzerPress struct {
	ID string `json:"id"`
}

// MessagePosted appends a wall post.
type MessagePosted struct {
	Message ChatMessage
}

// Control is a moderation command. Wall is set for UPDATE_WALL, StudentID
// for REMOVE_STUDENT.
type Control struct {
	Type      ControlType `json:"type"`
	Wall      *WallConfig `json:"wall,omitempty"`
	StudentID string      `json:"studentId,omitempty"`
}

// StatusChanged is a local-only event: the optimistic write of this peer's
// own roster entry before the relay echoes it back through presence.
type StatusChanged struct {
	Status StudentStatus
}

func (PresenceSync) isEvent()  {}
func (BuzzerPress) isEvent()   {}
func (MessagePosted) isEvent() {}
func (Control) isEvent()       {}
func (StatusChanged) isEvent() {}
