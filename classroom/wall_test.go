package classroom

import "testing"

func wallMsg(sender string, role Role, text string) ChatMessage {
	return ChatMessage{ID: "m-" + sender + text, SenderID: sender, SenderName: sender, Role: role, Text: text}
}

func TestWallVisibilityPrivate(t *testing.T) {
	wall := WallConfig{IsPublic: false, ShowNames: true}
	fromS1 := wallMsg("s1", RoleStudent, "hello")
	fromTeacher := wallMsg("t1", RoleTeacher, "welcome")

	// Scenario D: on a private wall a student post is visible to its author
	// and to the teacher, but not to other students.
	if !wall.CanView(fromS1, RoleStudent, "s1") {
		t.Fatal("author must always see their own post")
	}
	if wall.CanView(fromS1, RoleStudent, "s2") {
		t.Fatal("private wall must hide foreign student posts")
	}
	if !wall.CanView(fromS1, RoleTeacher, "t1") {
		t.Fatal("the teacher sees every post")
	}
	if !wall.CanView(fromTeacher, RoleStudent, "s2") {
		t.Fatal("teacher posts are visible unconditionally")
	}
}

func TestWallVisibilityPublic(t *testing.T) {
	wall := DefaultWallConfig()
	m := wallMsg("s1", RoleStudent, "hi all")
	for _, viewer := range []string{"s1", "s2"} {
		if !wall.CanView(m, RoleStudent, viewer) {
			t.Errorf("public wall must show the post to %s", viewer)
		}
	}
}

func TestWallNameDisclosure(t *testing.T) {
	anon := WallConfig{IsPublic: true, ShowNames: false}
	m := wallMsg("s1", RoleStudent, "hi")

	if !anon.ShowSenderName(m, "s1") {
		t.Fatal("authors see their own name")
	}
	if anon.ShowSenderName(m, "s2") {
		t.Fatal("with showNames off, foreign student posts are anonymized")
	}
	if !anon.ShowSenderName(wallMsg("t1", RoleTeacher, "hi"), "s2") {
		t.Fatal("teacher posts always carry the name")
	}
}

func TestWallPostingEligibility(t *testing.T) {
	// Scenario C: wall locked with an empty allow list, then s1 is allowed.
	locked := WallConfig{IsPublic: true, ShowNames: true, IsLocked: true}
	if locked.CanPost(RoleStudent, "s1") {
		t.Fatal("locked wall with empty allow list must refuse students")
	}
	if !locked.CanPost(RoleTeacher, "t1") {
		t.Fatal("the teacher posts unconditionally")
	}

	allowed := locked.Merge(WallUpdate{AllowedStudentIDs: []string{"s1"}})
	if !allowed.CanPost(RoleStudent, "s1") {
		t.Fatal("allow-listed student must be able to post")
	}
	if allowed.CanPost(RoleStudent, "s2") {
		t.Fatal("allowance is per student id")
	}
}

func TestWallMergeKeepsUnsetFields(t *testing.T) {
	truth := true
	base := DefaultWallConfig()
	merged := base.Merge(WallUpdate{IsLocked: &truth})

	if !merged.IsLocked {
		t.Fatal("set field must be applied")
	}
	if merged.IsPublic != base.IsPublic || merged.ShowNames != base.ShowNames {
		t.Fatal("unset fields must keep their current values")
	}
}

func TestVisibleMessagesOrder(t *testing.T) {
	wall := WallConfig{IsPublic: false}
	log := []ChatMessage{
		wallMsg("s1", RoleStudent, "one"),
		wallMsg("s2", RoleStudent, "two"),
		wallMsg("t1", RoleTeacher, "three"),
		wallMsg("s1", RoleStudent, "four"),
	}

	visible := VisibleMessages(log, wall, RoleStudent, "s1")
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible messages, got %d", len(visible))
	}
	if visible[0].Text != "one" || visible[1].Text != "three" || visible[2].Text != "four" {
		t.Fatal("filtering must preserve log order")
	}
}
