package classroom

// recentMessageIDs bounds the de-dup set guarding against at-least-once
// redelivery from the relay.
const recentMessageIDs = 512

// Reducer is the single state-transition function of the protocol:
// Apply(current, event) → next. It never mutates the state it is given, so
// a snapshot handed to the UI stays stable while new events arrive. The only
// memory it keeps outside the state is the bounded ring of recently seen
// message ids; every other rule is a pure function of (state, event).
//
// Each peer owns exactly one Reducer and feeds it events serially; the type
// is not safe for concurrent Apply calls.
type Reducer struct {
	seen     map[string]struct{}
	seenRing [recentMessageIDs]string
	seenNext int
}

func NewReducer() *Reducer {
	return &Reducer{seen: make(map[string]struct{}, recentMessageIDs)}
}

// Apply computes the next state. Unknown events leave the state unchanged.
func (r *Reducer) Apply(state RoomState, event Event) RoomState {
	switch ev := event.(type) {
	case PresenceSync:
		return applyPresence(state, ev)
	case BuzzerPress:
		next := state
		next.Buzzer, _ = state.Buzzer.Press(ev.ID)
		return next
	case MessagePosted:
		return r.applyMessage(state, ev)
	case Control:
		return applyControl(state, ev)
	case StatusChanged:
		if ev.Status.ID == "" {
			return state
		}
		next := state.clone()
		next.Students[ev.Status.ID] = ev.Status
		return next
	default:
		return state
	}
}

// applyPresence recomputes the roster from scratch. This is a full replace,
// not a merge: a peer absent from the snapshot disappears even if it posted
// status moments earlier.
func applyPresence(state RoomState, ev PresenceSync) RoomState {
	next := state.clone()
	next.TeacherPresent = false
	next.Students = make(map[string]StudentStatus, len(ev.Peers))
	for _, payload := range ev.Peers {
		if payload.IsTeacher() {
			next.TeacherPresent = true
			continue
		}
		if !payload.Valid() {
			continue
		}
		next.Students[payload.ID] = payload.Status()
	}
	return next
}

func (r *Reducer) applyMessage(state RoomState, ev MessagePosted) RoomState {
	if ev.Message.ID != "" {
		if _, dup := r.seen[ev.Message.ID]; dup {
			return state
		}
		r.remember(ev.Message.ID)
	}
	next := state.clone()
	next.Messages = append(next.Messages, ev.Message)
	return next
}

// remember records a message id, evicting the oldest once the ring is full.
func (r *Reducer) remember(id string) {
	if evicted := r.seenRing[r.seenNext]; evicted != "" {
		delete(r.seen, evicted)
	}
	r.seenRing[r.seenNext] = id
	r.seenNext = (r.seenNext + 1) % recentMessageIDs
	r.seen[id] = struct{}{}
}

func applyControl(state RoomState, ev Control) RoomState {
	switch ev.Type {
	case ControlResetBuzzer:
		next := state
		next.Buzzer = state.Buzzer.Reset()
		return next
	case ControlLockBuzzer:
		next := state
		next.Buzzer = state.Buzzer.Lock()
		return next
	case ControlResetAll:
		next := state.clone()
		for id, st := range next.Students {
			next.Students[id] = st.Cleared()
		}
		next.Buzzer.WinnerID = ""
		return next
	case ControlUpdateWall:
		if ev.Wall == nil {
			return state
		}
		next := state
		next.Wall = *ev.Wall
		next.Wall.AllowedStudentIDs = append([]string(nil), ev.Wall.AllowedStudentIDs...)
		return next
	case ControlRemoveStudent:
		if _, ok := state.Students[ev.StudentID]; !ok {
			return state
		}
		next := state.clone()
		delete(next.Students, ev.StudentID)
		return next
	default:
		return state
	}
}
