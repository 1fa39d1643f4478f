package classroom

import (
	"testing"
	"time"
)

func TestStatusTimestampOnRisingEdge(t *testing.T) {
	s := NewStudentStatus("s1", "An", "1")
	before := time.Now().UnixMilli()

	s = s.WithNeedsHelp(true)
	if !s.NeedsHelp {
		t.Fatal("flag must be set")
	}
	if s.NeedsHelpAt < before {
		t.Fatalf("rising edge must stamp a current time, got %d < %d", s.NeedsHelpAt, before)
	}

	// Re-asserting true keeps the original stamp.
	first := s.NeedsHelpAt
	s = s.WithNeedsHelp(true)
	if s.NeedsHelpAt != first {
		t.Fatal("re-asserting an already-set flag must not move the stamp")
	}
}

func TestStatusTimestampClearedOnReset(t *testing.T) {
	s := NewStudentStatus("s1", "An", "1").WithHandRaised(true)
	first := s.HandRaisedAt

	s = s.WithHandRaised(false)
	if s.HandRaisedAt != 0 {
		t.Fatal("falling edge must clear the stamp")
	}

	// The next rising edge gets a fresh stamp, never a resurrected one.
	s = s.WithHandRaised(true)
	if s.HandRaisedAt < first {
		t.Fatalf("new stamp %d must not predate the old one %d", s.HandRaisedAt, first)
	}
}

func TestStatusFinishedToggle(t *testing.T) {
	s := NewStudentStatus("s1", "An", "1").WithFinished(true)
	if !s.IsFinished || s.IsFinishedAt == 0 {
		t.Fatal("finished flag and stamp must be set together")
	}
	s = s.WithFinished(false)
	if s.IsFinished || s.IsFinishedAt != 0 {
		t.Fatal("finished flag and stamp must be cleared together")
	}
}

func TestStatusPayloadRoundTrip(t *testing.T) {
	s := NewStudentStatus("s1", "An", "To 2").WithNeedsHelp(true).WithBuzzerPress()
	p := s.Payload()

	if p.Role != RoleStudent {
		t.Fatal("tracked payload must carry the student role")
	}
	back := p.Status()
	if back != s {
		t.Fatalf("payload must republish the full record, got %+v want %+v", back, s)
	}
}
