package classroom

// BuzzerState is the lock/unlock state machine for the shared buzzer.
// WinnerID is non-empty only while the buzzer is locked: the first accepted
// press locks the round. Every peer evaluates presses against its own copy,
// so near-simultaneous presses may briefly disagree across peers; the design
// trades that small window for latency.
type BuzzerState struct {
	Active   bool   `json:"active"`
	WinnerID string `json:"winnerId,omitempty"`
}

// OpenBuzzer is the initial state: armed, no winner.
func OpenBuzzer() BuzzerState {
	return BuzzerState{Active: true}
}

// Press applies a buzzer press. It is accepted only while the buzzer is
// active with no winner; acceptance atomically locks the round on this peer.
func (b BuzzerState) Press(id string) (BuzzerState, bool) {
	if !b.Active || b.WinnerID != "" || id == "" {
		return b, false
	}
	return BuzzerState{Active: false, WinnerID: id}, true
}

// Reset re-arms the buzzer for a new round.
func (b BuzzerState) Reset() BuzzerState {
	return BuzzerState{Active: true}
}

// Lock closes the buzzer without naming a winner.
func (b BuzzerState) Lock() BuzzerState {
	return BuzzerState{Active: false}
}

// LockedFor reports whether the press control should be disabled for id:
// the buzzer is closed, or somebody else already won the round.
func (b BuzzerState) LockedFor(id string) bool {
	return !b.Active || (b.WinnerID != "" && b.WinnerID != id)
}
