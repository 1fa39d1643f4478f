package classroom

import "time"

// StudentStatus is the single source of truth for one student. Each *At
// timestamp (unix milliseconds) is set exactly on the false→true transition
// of its flag and cleared again when the flag resets.
type StudentStatus struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Group           string `json:"group,omitempty"`
	AvatarSeed      string `json:"avatarSeed"`
	NeedsHelp       bool   `json:"needsHelp"`
	NeedsHelpAt     int64  `json:"needsHelpAt,omitempty"`
	IsFinished      bool   `json:"isFinished"`
	IsFinishedAt    int64  `json:"isFinishedAt,omitempty"`
	HandRaised      bool   `json:"handRaised"`
	HandRaisedAt    int64  `json:"handRaisedAt,omitempty"`
	BuzzerPressedAt int64  `json:"buzzerPressedAt,omitempty"`
}

// NewStudentStatus creates a fresh roster record. The session id doubles as
// the avatar seed, as in the original client.
func NewStudentStatus(id, name, group string) StudentStatus {
	return StudentStatus{
		ID:         id,
		Name:       name,
		Group:      group,
		AvatarSeed: id,
	}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// WithNeedsHelp returns a copy with the flag set, stamping the transition
// time on false→true and clearing it on reset.
func (s StudentStatus) WithNeedsHelp(v bool) StudentStatus {
	if v && !s.NeedsHelp {
		s.NeedsHelpAt = nowMillis()
	} else if !v {
		s.NeedsHelpAt = 0
	}
	s.NeedsHelp = v
	return s
}

func (s StudentStatus) WithFinished(v bool) StudentStatus {
	if v && !s.IsFinished {
		s.IsFinishedAt = nowMillis()
	} else if !v {
		s.IsFinishedAt = 0
	}
	s.IsFinished = v
	return s
}

func (s StudentStatus) WithHandRaised(v bool) StudentStatus {
	if v && !s.HandRaised {
		s.HandRaisedAt = nowMillis()
	} else if !v {
		s.HandRaisedAt = 0
	}
	s.HandRaised = v
	return s
}

// WithBuzzerPress stamps the local press time.
func (s StudentStatus) WithBuzzerPress() StudentStatus {
	s.BuzzerPressedAt = nowMillis()
	return s
}

// Cleared resets every flag and timestamp while keeping identity. Applied to
// the whole roster by the RESET_ALL control.
func (s StudentStatus) Cleared() StudentStatus {
	s.NeedsHelp = false
	s.NeedsHelpAt = 0
	s.IsFinished = false
	s.IsFinishedAt = 0
	s.HandRaised = false
	s.HandRaisedAt = 0
	s.BuzzerPressedAt = 0
	return s
}
