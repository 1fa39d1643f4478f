// Package classroom implements the room synchronization core: the shared
// data model, the state reducer every peer runs against the same event
// stream, buzzer arbitration and the wall moderation policy. The package is
// pure — all networking lives in the sdk and relay layers.
package classroom

import "strings"

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// PresencePayload is the record a peer tracks on its room channel. Students
// track their full status; teachers track only enough to be identified.
type PresencePayload struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Role            Role   `json:"role,omitempty"`
	Group           string `json:"group,omitempty"`
	AvatarSeed      string `json:"avatarSeed,omitempty"`
	NeedsHelp       bool   `json:"needsHelp,omitempty"`
	NeedsHelpAt     int64  `json:"needsHelpAt,omitempty"`
	IsFinished      bool   `json:"isFinished,omitempty"`
	IsFinishedAt    int64  `json:"isFinishedAt,omitempty"`
	HandRaised      bool   `json:"handRaised,omitempty"`
	HandRaisedAt    int64  `json:"handRaisedAt,omitempty"`
	BuzzerPressedAt int64  `json:"buzzerPressedAt,omitempty"`
}

// IsTeacher reports whether the payload identifies a teacher. Any other
// role value, including a missing one, counts as a student: presence
// acceptance is deliberately permissive so that schema drift between client
// versions removes nothing from the roster.
func (p PresencePayload) IsTeacher() bool {
	return Role(strings.ToLower(string(p.Role))) == RoleTeacher
}

// Valid reports whether the payload carries enough identity to appear on
// the roster at all.
func (p PresencePayload) Valid() bool {
	return p.ID != "" && p.Name != ""
}

// Status converts a tracked payload into the roster record for a student.
func (p PresencePayload) Status() StudentStatus {
	return StudentStatus{
		ID:              p.ID,
		Name:            p.Name,
		Group:           p.Group,
		AvatarSeed:      p.AvatarSeed,
		NeedsHelp:       p.NeedsHelp,
		NeedsHelpAt:     p.NeedsHelpAt,
		IsFinished:      p.IsFinished,
		IsFinishedAt:    p.IsFinishedAt,
		HandRaised:      p.HandRaised,
		HandRaisedAt:    p.HandRaisedAt,
		BuzzerPressedAt: p.BuzzerPressedAt,
	}
}

// Payload is the inverse of Status: the presence record republished in full
// on every local status mutation.
func (s StudentStatus) Payload() PresencePayload {
	return PresencePayload{
		ID:              s.ID,
		Name:            s.Name,
		Role:            RoleStudent,
		Group:           s.Group,
		AvatarSeed:      s.AvatarSeed,
		NeedsHelp:       s.NeedsHelp,
		NeedsHelpAt:     s.NeedsHelpAt,
		IsFinished:      s.IsFinished,
		IsFinishedAt:    s.IsFinishedAt,
		HandRaised:      s.HandRaised,
		HandRaisedAt:    s.HandRaisedAt,
		BuzzerPressedAt: s.BuzzerPressedAt,
	}
}

// TeacherPresence builds the minimal payload a teacher tracks so that
// peers can derive the teacher-present flag.
func TeacherPresence(id, name string) PresencePayload {
	return PresencePayload{ID: id, Name: name, Role: RoleTeacher}
}
