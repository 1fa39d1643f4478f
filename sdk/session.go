package sdk

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/classpulse/classpulse/classroom"
	"github.com/classpulse/classpulse/internal/infrastructure/profanity"
	"github.com/classpulse/classpulse/internal/infrastructure/validate"
)

// Session is one participant's live attachment to a room: a channel, the
// local store and this peer's own roster entry. Operations mutate local state
// optimistically and publish to the relay; remote peers converge through the
// same reducer.
type Session struct {
	client  *Client
	role    classroom.Role
	adapter *RoomAdapter
	store   *Store
	filter  *profanity.Filter

	mu      sync.Mutex
	roomKey string
	topic   string
	channel Channel
	self    classroom.StudentStatus

	// pressed is guarded separately: handleEvent touches it and may run
	// synchronously inside a channel call that already holds mu.
	pressMu sync.Mutex
	pressed bool // local latch: one accepted press per buzzer round
}

func newStudentSession(c *Client, roomKey, name, group string) (*Session, error) {
	name = strings.TrimSpace(name)
	if err := validate.DisplayName()(name); err != nil {
		return nil, err
	}

	s := &Session{
		client:  c,
		role:    classroom.RoleStudent,
		adapter: NewRoomAdapter(c.relay),
		store:   NewStore(),
		filter:  profanity.NewFilter(),
		self:    classroom.NewStudentStatus(uuid.NewString(), name, group),
	}
	if err := s.attach(roomKey); err != nil {
		return nil, err
	}
	return s, nil
}

func newTeacherSession(c *Client, roomKey, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if err := validate.DisplayName()(name); err != nil {
		return nil, err
	}

	s := &Session{
		client:  c,
		role:    classroom.RoleTeacher,
		adapter: NewRoomAdapter(c.relay),
		store:   NewStore(),
		filter:  profanity.NewFilter(),
		self: classroom.StudentStatus{
			ID:   uuid.NewString(),
			Name: name,
		},
	}
	if err := s.attach(roomKey); err != nil {
		return nil, err
	}
	return s, nil
}

// attach joins a room, wiring events before the first track so the join
// snapshot is never missed.
func (s *Session) attach(roomKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := classroom.NormalizeRoomKey(roomKey)
	topic, err := classroom.TopicFor(key)
	if err != nil {
		return err
	}

	ch, err := s.adapter.Join(key, s.self.ID)
	if err != nil {
		return err
	}
	ch.OnEvent(s.handleEvent)

	s.roomKey = key
	s.topic = topic
	s.channel = ch

	s.pressMu.Lock()
	s.pressed = false
	s.pressMu.Unlock()

	return s.trackLocked()
}

// SwitchRoom leaves the current room and joins another. Everything learned in
// the old room is discarded; the wall does not follow the peer.
func (s *Session) SwitchRoom(roomKey string) error {
	s.store.Reset()
	return s.attach(roomKey)
}

// Leave detaches from the room. Later operations on the session return
// ErrClosed until SwitchRoom attaches it somewhere again.
func (s *Session) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = nil
	return s.adapter.Leave()
}

func (s *Session) SelfID() string {
	return s.self.ID
}

func (s *Session) Role() classroom.Role {
	return s.role
}

func (s *Session) RoomKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomKey
}

func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

func (s *Session) State() classroom.RoomState {
	return s.store.State()
}

func (s *Session) Subscribe(fn func(classroom.RoomState)) func() {
	return s.store.Subscribe(fn)
}

// VisibleWall filters the message log down to what this participant may see.
func (s *Session) VisibleWall() []classroom.ChatMessage {
	state := s.store.State()
	return classroom.VisibleMessages(state.Messages, state.Wall, s.role, s.self.ID)
}

// handleEvent feeds every channel event through the store. The buzzer latch
// re-arms as soon as the buzzer is open again.
func (s *Session) handleEvent(event classroom.Event) {
	state := s.store.Dispatch(event)

	if state.Buzzer.Active {
		s.pressMu.Lock()
		s.pressed = false
		s.pressMu.Unlock()
	}
}

// trackLocked republishes this peer's full presence record. Callers hold s.mu.
func (s *Session) trackLocked() error {
	if s.channel == nil {
		return ErrClosed
	}

	var payload classroom.PresencePayload
	if s.role == classroom.RoleTeacher {
		payload = classroom.TeacherPresence(s.self.ID, s.self.Name)
	} else {
		payload = s.self.Payload()
		s.store.Dispatch(classroom.StatusChanged{Status: s.self})
	}
	return s.channel.Track(payload)
}

func (s *Session) updateStatus(mutate func(classroom.StudentStatus) classroom.StudentStatus) error {
	if s.role != classroom.RoleStudent {
		return ErrNotStudent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = mutate(s.self)
	return s.trackLocked()
}

func (s *Session) ToggleNeedsHelp() error {
	return s.updateStatus(func(st classroom.StudentStatus) classroom.StudentStatus {
		return st.WithNeedsHelp(!st.NeedsHelp)
	})
}

func (s *Session) ToggleFinished() error {
	return s.updateStatus(func(st classroom.StudentStatus) classroom.StudentStatus {
		return st.WithFinished(!st.IsFinished)
	})
}

func (s *Session) ToggleHandRaised() error {
	return s.updateStatus(func(st classroom.StudentStatus) classroom.StudentStatus {
		return st.WithHandRaised(!st.HandRaised)
	})
}

// PressBuzzer races for the current round. The press is judged against the
// local state first; losing the relay race later is fine because every peer's
// reducer accepts only the first press it sees.
func (s *Session) PressBuzzer() error {
	if s.role != classroom.RoleStudent {
		return ErrNotStudent
	}

	s.pressMu.Lock()
	if s.pressed {
		s.pressMu.Unlock()
		return nil
	}
	if s.store.State().Buzzer.LockedFor(s.self.ID) {
		s.pressMu.Unlock()
		return ErrBuzzerLocked
	}
	s.pressed = true
	s.pressMu.Unlock()

	s.mu.Lock()
	ch := s.channel
	if ch == nil {
		s.mu.Unlock()
		return ErrClosed
	}
	s.self = s.self.WithBuzzerPress()
	press := classroom.BuzzerPress{ID: s.self.ID}
	s.mu.Unlock()

	s.store.Dispatch(press)
	if err := ch.Broadcast(press); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackLocked()
}

// PostText publishes a text-only wall post.
func (s *Session) PostText(text string) error {
	return s.post(strings.TrimSpace(text), "")
}

// PostImage publishes a wall post carrying an already-encoded image data URI,
// with optional caption text. Use EncodeImage to produce the attachment.
func (s *Session) PostImage(text, imageURL string) error {
	return s.post(strings.TrimSpace(text), imageURL)
}

// EncodeImage prepares a local image for posting using the client's size and
// quality settings.
func (s *Session) EncodeImage(raw []byte) (string, error) {
	return EncodeImageAttachment(raw, s.client.maxImageWidth, s.client.imageQuality)
}

func (s *Session) post(text, imageURL string) error {
	if text == "" && imageURL == "" {
		return ErrEmptyMessage
	}

	state := s.store.State()
	if !state.Wall.CanPost(s.role, s.self.ID) {
		return ErrPostingLocked
	}
	if s.filter.ContainsProfanity(text) {
		return ErrProfanity
	}

	s.mu.Lock()
	ch := s.channel
	if ch == nil {
		s.mu.Unlock()
		return ErrClosed
	}
	msg := classroom.NewChatMessage(s.self.ID, s.self.Name, s.role, text, imageURL)
	s.mu.Unlock()

	posted := classroom.MessagePosted{Message: msg}
	s.store.Dispatch(posted)
	return ch.Broadcast(posted)
}

func (s *Session) control(ctrl classroom.Control) error {
	if s.role != classroom.RoleTeacher {
		return ErrNotTeacher
	}

	s.mu.Lock()
	ch := s.channel
	s.mu.Unlock()
	if ch == nil {
		return ErrClosed
	}

	s.store.Dispatch(ctrl)
	return ch.Broadcast(ctrl)
}

func (s *Session) ResetBuzzer() error {
	return s.control(classroom.Control{Type: classroom.ControlResetBuzzer})
}

func (s *Session) LockBuzzer() error {
	return s.control(classroom.Control{Type: classroom.ControlLockBuzzer})
}

// ResetAll clears every student flag and the buzzer winner in one shot.
func (s *Session) ResetAll() error {
	return s.control(classroom.Control{Type: classroom.ControlResetAll})
}

func (s *Session) RemoveStudent(studentID string) error {
	return s.control(classroom.Control{Type: classroom.ControlRemoveStudent, StudentID: studentID})
}

// UpdateWall merges a partial edit into the current config locally and
// broadcasts the complete result; receivers replace their config wholesale.
func (s *Session) UpdateWall(update classroom.WallUpdate) error {
	merged := s.store.State().Wall.Merge(update)
	return s.control(classroom.Control{Type: classroom.ControlUpdateWall, Wall: &merged})
}

// Advise asks the teacher assistant for guidance grounded in the live room
// snapshot. It always returns usable text; failures fall back to canned
// advice.
func (s *Session) Advise(question string) string {
	return s.client.advice.Advise(s.store.State(), question)
}
