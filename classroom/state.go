package classroom

// RoomState is the client-local aggregate every peer reconstructs
// independently from the same event stream. Presence-derived fields
// (Students, TeacherPresent) are relay-verified; broadcast-derived fields
// (Messages, Buzzer, Wall) are trust-on-receipt.
type RoomState struct {
	Students       map[string]StudentStatus `json:"students"`
	Messages       []ChatMessage            `json:"messages"`
	Buzzer         BuzzerState              `json:"buzzer"`
	Wall           WallConfig               `json:"wallConfig"`
	TeacherPresent bool                     `json:"teacherPresent"`
}

// NewRoomState is the state the instant a client subscribes: empty roster,
// empty wall, buzzer armed.
func NewRoomState() RoomState {
	return RoomState{
		Students: map[string]StudentStatus{},
		Buzzer:   OpenBuzzer(),
		Wall:     DefaultWallConfig(),
	}
}

// clone deep-copies the state so the reducer can follow the whole-object
// replace pattern without aliasing the previous snapshot.
func (s RoomState) clone() RoomState {
	students := make(map[string]StudentStatus, len(s.Students))
	for id, st := range s.Students {
		students[id] = st
	}
	next := s
	next.Students = students
	next.Messages = append([]ChatMessage(nil), s.Messages...)
	next.Wall.AllowedStudentIDs = append([]string(nil), s.Wall.AllowedStudentIDs...)
	return next
}

// Student looks up one roster entry.
func (s RoomState) Student(id string) (StudentStatus, bool) {
	st, ok := s.Students[id]
	return st, ok
}

// Counts summarizes the roster for the advice context.
func (s RoomState) Counts() (total, finished, needingHelp int) {
	total = len(s.Students)
	for _, st := range s.Students {
		if st.IsFinished {
			finished++
		}
		if st.NeedsHelp {
			needingHelp++
		}
	}
	return total, finished, needingHelp
}
