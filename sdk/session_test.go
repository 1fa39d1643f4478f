package sdk_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/classpulse/classpulse/classroom"
	"github.com/classpulse/classpulse/sdk"
	"github.com/classpulse/classpulse/sdk/relaytest"
)

func newTestClient(t *testing.T) (*sdk.Client, *relaytest.Relay) {
	t.Helper()
	relay := relaytest.New()
	client := sdk.NewClient(sdk.Options{Relay: relay, TeacherPassphrase: "chalkboard"})
	return client, relay
}

func TestTeacherPassphraseGate(t *testing.T) {
	client, _ := newTestClient(t)

	if _, err := client.JoinAsTeacher("math 6b", "Ms. Patel", "wrong"); !errors.Is(err, sdk.ErrBadPassphrase) {
		t.Fatalf("wrong passphrase: err = %v, want ErrBadPassphrase", err)
	}

	teacher, err := client.JoinAsTeacher("math 6b", "Ms. Patel", "chalkboard")
	if err != nil {
		t.Fatalf("correct passphrase rejected: %v", err)
	}
	defer teacher.Leave()
}

func TestPresenceFlowsBothWays(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, err := client.JoinAsTeacher("Math 6B", "Ms. Patel", "chalkboard")
	if err != nil {
		t.Fatal(err)
	}
	defer teacher.Leave()

	student, err := client.JoinAsStudent("math 6b  ", "Liam", "blue")
	if err != nil {
		t.Fatal(err)
	}
	defer student.Leave()

	// Keys normalize to the same room.
	if teacher.RoomKey() != student.RoomKey() {
		t.Fatalf("room keys diverge: %q vs %q", teacher.RoomKey(), student.RoomKey())
	}

	st, ok := teacher.State().Student(student.SelfID())
	if !ok {
		t.Fatal("teacher roster is missing the student")
	}
	if st.Name != "Liam" || st.Group != "blue" {
		t.Errorf("roster entry = %+v", st)
	}
	if st.AvatarSeed != student.SelfID() {
		t.Errorf("avatar seed = %q, want the session id", st.AvatarSeed)
	}

	if !student.State().TeacherPresent {
		t.Error("student must see the teacher-present flag")
	}
	if _, ok := student.State().Student(teacher.SelfID()); ok {
		t.Error("teacher must not appear as a roster student")
	}
}

func TestStatusTogglePropagates(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	student, _ := client.JoinAsStudent("r", "Liam", "")
	defer student.Leave()

	if err := student.ToggleNeedsHelp(); err != nil {
		t.Fatal(err)
	}

	st, ok := teacher.State().Student(student.SelfID())
	if !ok {
		t.Fatal("student missing from teacher roster")
	}
	if !st.NeedsHelp || st.NeedsHelpAt == 0 {
		t.Errorf("needs-help flag did not propagate: %+v", st)
	}

	if err := student.ToggleNeedsHelp(); err != nil {
		t.Fatal(err)
	}
	st, _ = teacher.State().Student(student.SelfID())
	if st.NeedsHelp || st.NeedsHelpAt != 0 {
		t.Errorf("needs-help reset did not propagate: %+v", st)
	}

	if err := teacher.ToggleNeedsHelp(); !errors.Is(err, sdk.ErrNotStudent) {
		t.Errorf("teacher toggling a student flag: err = %v, want ErrNotStudent", err)
	}
}

func TestBuzzerRound(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	liam, _ := client.JoinAsStudent("r", "Liam", "")
	defer liam.Leave()
	mia, _ := client.JoinAsStudent("r", "Mia", "")
	defer mia.Leave()

	if err := liam.PressBuzzer(); err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string]*sdk.Session{"teacher": teacher, "liam": liam, "mia": mia} {
		b := s.State().Buzzer
		if b.Active || b.WinnerID != liam.SelfID() {
			t.Errorf("%s sees buzzer %+v, want closed with winner %s", name, b, liam.SelfID())
		}
	}

	if err := mia.PressBuzzer(); !errors.Is(err, sdk.ErrBuzzerLocked) {
		t.Fatalf("late press: err = %v, want ErrBuzzerLocked", err)
	}

	if err := teacher.ResetBuzzer(); err != nil {
		t.Fatal(err)
	}
	if !mia.State().Buzzer.Active {
		t.Fatal("reset did not re-arm the buzzer")
	}

	// New round: the previous loser can win now.
	if err := mia.PressBuzzer(); err != nil {
		t.Fatal(err)
	}
	if got := liam.State().Buzzer.WinnerID; got != mia.SelfID() {
		t.Errorf("second round winner = %q, want %q", got, mia.SelfID())
	}
}

func TestWallModeration(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	liam, _ := client.JoinAsStudent("r", "Liam", "")
	defer liam.Leave()
	mia, _ := client.JoinAsStudent("r", "Mia", "")
	defer mia.Leave()

	if err := liam.PostText("anyone on question 3?"); err != nil {
		t.Fatal(err)
	}
	if msgs := teacher.VisibleWall(); len(msgs) != 1 || msgs[0].Text != "anyone on question 3?" {
		t.Fatalf("teacher wall = %+v", msgs)
	}

	if err := liam.PostText("this is sh1t"); !errors.Is(err, sdk.ErrProfanity) {
		t.Fatalf("profane post: err = %v, want ErrProfanity", err)
	}

	locked := true
	if err := teacher.UpdateWall(classroom.WallUpdate{IsLocked: &locked}); err != nil {
		t.Fatal(err)
	}
	if err := mia.PostText("hello"); !errors.Is(err, sdk.ErrPostingLocked) {
		t.Fatalf("post on locked wall: err = %v, want ErrPostingLocked", err)
	}

	// An explicit allowance punches through the lock; other fields keep
	// their values across the partial update.
	if err := teacher.UpdateWall(classroom.WallUpdate{AllowedStudentIDs: []string{mia.SelfID()}}); err != nil {
		t.Fatal(err)
	}
	if !mia.State().Wall.IsLocked {
		t.Fatal("partial update must keep the lock in place")
	}
	if err := mia.PostText("thanks!"); err != nil {
		t.Fatalf("allowed student blocked: %v", err)
	}

	// The teacher posts regardless of the lock.
	if err := teacher.PostText("wrapping up in 5"); err != nil {
		t.Fatalf("teacher post blocked: %v", err)
	}
}

func TestWallVisibilityPerViewer(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	liam, _ := client.JoinAsStudent("r", "Liam", "")
	defer liam.Leave()
	mia, _ := client.JoinAsStudent("r", "Mia", "")
	defer mia.Leave()

	private := false
	if err := teacher.UpdateWall(classroom.WallUpdate{IsPublic: &private}); err != nil {
		t.Fatal(err)
	}

	if err := liam.PostText("my private answer"); err != nil {
		t.Fatal(err)
	}

	if msgs := liam.VisibleWall(); len(msgs) != 1 {
		t.Error("author must see their own post on a private wall")
	}
	if msgs := mia.VisibleWall(); len(msgs) != 0 {
		t.Errorf("other students must not see private posts, got %+v", msgs)
	}
	if msgs := teacher.VisibleWall(); len(msgs) != 1 {
		t.Error("teacher must see every post")
	}
}

func TestTeacherControlsRequireRole(t *testing.T) {
	client, _ := newTestClient(t)

	student, _ := client.JoinAsStudent("r", "Liam", "")
	defer student.Leave()

	if err := student.ResetBuzzer(); !errors.Is(err, sdk.ErrNotTeacher) {
		t.Errorf("student reset: err = %v, want ErrNotTeacher", err)
	}
	if err := student.UpdateWall(classroom.WallUpdate{}); !errors.Is(err, sdk.ErrNotTeacher) {
		t.Errorf("student wall update: err = %v, want ErrNotTeacher", err)
	}
}

func TestResetAllClearsRoster(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	liam, _ := client.JoinAsStudent("r", "Liam", "")
	defer liam.Leave()

	if err := liam.ToggleFinished(); err != nil {
		t.Fatal(err)
	}
	if err := liam.PressBuzzer(); err != nil {
		t.Fatal(err)
	}

	if err := teacher.ResetAll(); err != nil {
		t.Fatal(err)
	}

	st, _ := liam.State().Student(liam.SelfID())
	if st.IsFinished || st.IsFinishedAt != 0 || st.BuzzerPressedAt != 0 {
		t.Errorf("reset-all left flags behind: %+v", st)
	}
	if liam.State().Buzzer.WinnerID != "" {
		t.Error("reset-all must clear the buzzer winner")
	}
}

func TestRemoveStudent(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	defer teacher.Leave()
	liam, _ := client.JoinAsStudent("r", "Liam", "")
	defer liam.Leave()

	if err := teacher.RemoveStudent(liam.SelfID()); err != nil {
		t.Fatal(err)
	}
	if _, ok := teacher.State().Student(liam.SelfID()); ok {
		t.Error("removed student still on the roster")
	}
}

func TestSwitchRoomStartsClean(t *testing.T) {
	client, relay := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("alpha", "T", "chalkboard")
	defer teacher.Leave()
	student, _ := client.JoinAsStudent("alpha", "Liam", "")
	defer student.Leave()

	if err := student.PostText("only for alpha"); err != nil {
		t.Fatal(err)
	}

	if err := student.SwitchRoom("beta"); err != nil {
		t.Fatal(err)
	}

	if got := student.RoomKey(); got != "beta" {
		t.Fatalf("room key = %q, want beta", got)
	}
	if msgs := student.State().Messages; len(msgs) != 0 {
		t.Errorf("wall followed the peer across rooms: %+v", msgs)
	}

	// The old room saw the student leave.
	if _, ok := teacher.State().Student(student.SelfID()); ok {
		t.Error("student still on the old room's roster after switching")
	}
	if n := relay.PeerCount("alpha"); n != 1 {
		t.Errorf("old room peer count = %d, want 1", n)
	}
}

func TestOperationsAfterLeaveFailSoftly(t *testing.T) {
	client, _ := newTestClient(t)

	teacher, _ := client.JoinAsTeacher("r", "T", "chalkboard")
	student, _ := client.JoinAsStudent("r", "Liam", "")

	if err := student.Leave(); err != nil {
		t.Fatal(err)
	}

	if err := student.PostText("too late"); !errors.Is(err, sdk.ErrClosed) {
		t.Errorf("post after leave: err = %v, want ErrClosed", err)
	}
	if err := student.ToggleNeedsHelp(); !errors.Is(err, sdk.ErrClosed) {
		t.Errorf("status toggle after leave: err = %v, want ErrClosed", err)
	}
	if err := student.PressBuzzer(); !errors.Is(err, sdk.ErrClosed) {
		t.Errorf("buzzer press after leave: err = %v, want ErrClosed", err)
	}

	if err := teacher.Leave(); err != nil {
		t.Fatal(err)
	}
	if err := teacher.ResetBuzzer(); !errors.Is(err, sdk.ErrClosed) {
		t.Errorf("control after leave: err = %v, want ErrClosed", err)
	}

	// A left session is dormant, not dead.
	if err := student.SwitchRoom("r"); err != nil {
		t.Fatal(err)
	}
	defer student.Leave()
	if err := student.PostText("back again"); err != nil {
		t.Errorf("post after rejoin: %v", err)
	}
}

func TestJoinRequiresDisplayName(t *testing.T) {
	client, _ := newTestClient(t)

	if _, err := client.JoinAsStudent("r", "   ", ""); err == nil {
		t.Error("blank student name accepted")
	}
	if _, err := client.JoinAsTeacher("r", "", "chalkboard"); err == nil {
		t.Error("blank teacher name accepted")
	}
	if _, err := client.JoinAsStudent("r", strings.Repeat("x", 49), ""); err == nil {
		t.Error("overlong name accepted")
	}
}
