package rooms

// roomResponse describes a room's live occupancy. The relay keeps no other
// room state.
type roomResponse struct {
	Key       string `json:"key"`
	Topic     string `json:"topic"`
	PeerCount int    `json:"peerCount"`
}
