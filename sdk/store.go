package sdk

import (
	"sync"

	"github.com/classpulse/classpulse/classroom"
)

// Store holds this peer's reconstruction of the room. Snapshots handed out by
// State are stable: the reducer replaces, never mutates.
type Store struct {
	mu      sync.RWMutex
	state   classroom.RoomState
	reducer *classroom.Reducer
	subs    map[int]func(classroom.RoomState)
	nextSub int
}

func NewStore() *Store {
	return &Store{
		state:   classroom.NewRoomState(),
		reducer: classroom.NewReducer(),
		subs:    make(map[int]func(classroom.RoomState)),
	}
}

func (s *Store) State() classroom.RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies one event and notifies subscribers with the new snapshot.
// Events are applied in arrival order; the caller serializes per channel.
func (s *Store) Dispatch(event classroom.Event) classroom.RoomState {
	s.mu.Lock()
	s.state = s.reducer.Apply(s.state, event)
	state := s.state
	subs := make([]func(classroom.RoomState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// Subscribe registers a snapshot listener and returns its cancel func.
func (s *Store) Subscribe(fn func(classroom.RoomState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Reset discards everything learned from the previous room. Wall posts are
// ephemeral, so switching rooms starts from a clean slate.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = classroom.NewRoomState()
	s.reducer = classroom.NewReducer()
	s.mu.Unlock()
}
