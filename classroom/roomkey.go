package classroom

import (
	"errors"
	"strings"
)

// topicPrefix namespaces classroom channels on the shared relay.
const topicPrefix = "classroom-room-"

var ErrEmptyRoomKey = errors.New("room key is empty")

// NormalizeRoomKey canonicalizes a user-entered room code: room keys are
// case- and surrounding-whitespace-insensitive.
func NormalizeRoomKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// TopicFor maps a room key to its relay topic.
func TopicFor(key string) (string, error) {
	normalized := NormalizeRoomKey(key)
	if normalized == "" {
		return "", ErrEmptyRoomKey
	}
	return topicPrefix + normalized, nil
}
