package classroom

import "github.com/google/uuid"

// ChatMessage is one wall post. The log is append-only and ephemeral: there
// is no durable store and a rejoining peer starts from an empty wall.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Role       Role   `json:"role"`
	Text       string `json:"text,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"` // data URI, client-side resized
	Timestamp  int64  `json:"timestamp"`
}

// NewChatMessage builds a wall post with a client-random id and the current
// time in unix milliseconds.
func NewChatMessage(senderID, senderName string, role Role, text, imageURL string) ChatMessage {
	return ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: senderName,
		Role:       role,
		Text:       text,
		ImageURL:   imageURL,
		Timestamp:  nowMillis(),
	}
}

// Empty reports whether the message carries neither text nor an image.
func (m ChatMessage) Empty() bool {
	return m.Text == "" && m.ImageURL == ""
}
