package classroom

import "testing"

func TestNormalizeRoomKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5A2", "5a2"},
		{"  Lop 5A2  ", "lop 5a2"},
		{"\tMATH\n", "math"},
		{"already-lower", "already-lower"},
	}
	for _, tt := range tests {
		if got := NormalizeRoomKey(tt.in); got != tt.want {
			t.Errorf("NormalizeRoomKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTopicFor(t *testing.T) {
	topic, err := TopicFor(" 5A2 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topic != "classroom-room-5a2" {
		t.Fatalf("topic = %q", topic)
	}

	if _, err := TopicFor("   "); err != ErrEmptyRoomKey {
		t.Fatalf("blank key must fail with ErrEmptyRoomKey, got %v", err)
	}
}
