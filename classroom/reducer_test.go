package classroom

import (
	"fmt"
	"testing"
)

func studentPayload(id, name string) PresencePayload {
	return PresencePayload{ID: id, Name: name, Role: RoleStudent, AvatarSeed: id}
}

func TestPresenceFullReplace(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	state = r.Apply(state, PresenceSync{Peers: map[string]PresencePayload{
		"s1": studentPayload("s1", "An"),
		"s2": studentPayload("s2", "Binh"),
	}})

	if len(state.Students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(state.Students))
	}

	// s2 drops off the snapshot: it must vanish from the roster regardless
	// of what the previous snapshot contained.
	state = r.Apply(state, PresenceSync{Peers: map[string]PresencePayload{
		"s1": studentPayload("s1", "An"),
	}})

	if len(state.Students) != 1 {
		t.Fatalf("expected 1 student after replace, got %d", len(state.Students))
	}
	if _, ok := state.Students["s2"]; ok {
		t.Fatal("s2 should have been dropped on disappear")
	}
}

func TestPresenceTeacherFlag(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	// Scenario A: student joins first, no teacher yet.
	state = r.Apply(state, PresenceSync{Peers: map[string]PresencePayload{
		"s1": studentPayload("s1", "An"),
	}})
	if state.TeacherPresent {
		t.Fatal("teacherPresent must be false without a teacher payload")
	}
	if _, ok := state.Students["s1"]; !ok {
		t.Fatal("s1 missing from roster")
	}

	state = r.Apply(state, PresenceSync{Peers: map[string]PresencePayload{
		"s1": studentPayload("s1", "An"),
		"t1": TeacherPresence("t1", "Ms. Hanh"),
	}})
	if !state.TeacherPresent {
		t.Fatal("teacherPresent must flip once a teacher payload appears")
	}
	if _, ok := state.Students["t1"]; ok {
		t.Fatal("teacher must not appear in the student roster")
	}
}

func TestPresencePermissiveAcceptance(t *testing.T) {
	r := NewReducer()
	state := r.Apply(NewRoomState(), PresenceSync{Peers: map[string]PresencePayload{
		// No role field at all: still a student.
		"s1": {ID: "s1", Name: "An"},
		// Unknown role: still a student.
		"s2": {ID: "s2", Name: "Binh", Role: "observer"},
		// Missing identity: skipped entirely.
		"x1": {ID: "x1"},
		"x2": {Name: "Ghost"},
	}})

	if len(state.Students) != 2 {
		t.Fatalf("expected 2 accepted students, got %d", len(state.Students))
	}
	for _, id := range []string{"s1", "s2"} {
		if _, ok := state.Students[id]; !ok {
			t.Errorf("%s should have been accepted as a student", id)
		}
	}
}

func TestMessageAppendAndDedup(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	msg := ChatMessage{ID: "m1", SenderID: "s1", SenderName: "An", Role: RoleStudent, Text: "hello"}
	state = r.Apply(state, MessagePosted{Message: msg})
	state = r.Apply(state, MessagePosted{Message: msg}) // relay redelivery

	if len(state.Messages) != 1 {
		t.Fatalf("duplicate message id must not double-append, got %d messages", len(state.Messages))
	}

	other := msg
	other.ID = "m2"
	state = r.Apply(state, MessagePosted{Message: other})
	if len(state.Messages) != 2 {
		t.Fatalf("distinct id must append, got %d messages", len(state.Messages))
	}
}

func TestMessageDedupRingEviction(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	for i := 0; i < recentMessageIDs+1; i++ {
		state = r.Apply(state, MessagePosted{Message: ChatMessage{ID: fmt.Sprintf("m%d", i)}})
	}

	// m0 has been evicted from the ring, so a redelivery of it appends again.
	state = r.Apply(state, MessagePosted{Message: ChatMessage{ID: "m0"}})
	if len(state.Messages) != recentMessageIDs+2 {
		t.Fatalf("evicted id should no longer dedup, got %d messages", len(state.Messages))
	}

	// A recent id still dedups.
	state = r.Apply(state, MessagePosted{Message: ChatMessage{ID: fmt.Sprintf("m%d", recentMessageIDs)}})
	if len(state.Messages) != recentMessageIDs+2 {
		t.Fatal("recent id must still be deduplicated")
	}
}

func TestControlUpdateWallIdempotent(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	wall := WallConfig{IsPublic: false, ShowNames: true, IsLocked: true, AllowedStudentIDs: []string{"s1"}}
	once := r.Apply(state, Control{Type: ControlUpdateWall, Wall: &wall})
	twice := r.Apply(once, Control{Type: ControlUpdateWall, Wall: &wall})

	if once.Wall.IsPublic != twice.Wall.IsPublic ||
		once.Wall.ShowNames != twice.Wall.ShowNames ||
		once.Wall.IsLocked != twice.Wall.IsLocked ||
		len(once.Wall.AllowedStudentIDs) != len(twice.Wall.AllowedStudentIDs) {
		t.Fatal("applying the same UPDATE_WALL twice must equal applying it once")
	}
	if !twice.Wall.IsLocked || twice.Wall.AllowedStudentIDs[0] != "s1" {
		t.Fatal("UPDATE_WALL must replace the whole config")
	}
}

func TestControlResetAll(t *testing.T) {
	r := NewReducer()
	state := NewRoomState()

	busy := NewStudentStatus("s1", "An", "1").WithNeedsHelp(true).WithHandRaised(true)
	state = r.Apply(state, StatusChanged{Status: busy})
	state = r.Apply(state, BuzzerPress{ID: "s1"})

	state = r.Apply(state, Control{Type: ControlResetAll})

	st := state.Students["s1"]
	if st.NeedsHelp || st.HandRaised || st.IsFinished {
		t.Fatal("RESET_ALL must clear every status flag")
	}
	if st.NeedsHelpAt != 0 || st.HandRaisedAt != 0 || st.IsFinishedAt != 0 || st.BuzzerPressedAt != 0 {
		t.Fatal("RESET_ALL must clear every status timestamp")
	}
	if state.Buzzer.WinnerID != "" {
		t.Fatal("RESET_ALL must clear the buzzer winner")
	}
}

func TestControlRemoveStudent(t *testing.T) {
	r := NewReducer()
	state := r.Apply(NewRoomState(), StatusChanged{Status: NewStudentStatus("s1", "An", "1")})

	state = r.Apply(state, Control{Type: ControlRemoveStudent, StudentID: "s1"})
	if _, ok := state.Students["s1"]; ok {
		t.Fatal("REMOVE_STUDENT must delete the roster entry")
	}

	// Removing an unknown id is a no-op, applied idempotently.
	state = r.Apply(state, Control{Type: ControlRemoveStudent, StudentID: "s1"})
	if len(state.Students) != 0 {
		t.Fatal("repeat removal must not disturb the roster")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	r := NewReducer()
	state := r.Apply(NewRoomState(), StatusChanged{Status: NewStudentStatus("s1", "An", "1")})
	before := len(state.Students)

	_ = r.Apply(state, Control{Type: ControlRemoveStudent, StudentID: "s1"})
	if len(state.Students) != before {
		t.Fatal("Apply must leave the previous snapshot intact")
	}

	_ = r.Apply(state, MessagePosted{Message: ChatMessage{ID: "m9", Text: "hi"}})
	if len(state.Messages) != 0 {
		t.Fatal("Apply must not append to the previous snapshot's log")
	}
}
