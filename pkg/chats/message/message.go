// Package message defines the Message record stored in a conversation.
package message

import (
	"time"

	"github.com/germanamz/chatbench/pkg/chats/role"
	"github.com/google/uuid"
)

// ClockLayout is the layout used to display message timestamps.
const ClockLayout = "15:04:05"

// Message is a single entry in a conversation. It is a value type and is
// never mutated once appended to a chat.
type Message struct {
	ID        string
	Role      role.Role
	Content   string
	Timestamp time.Time
}

// New creates a message with a fresh unique ID stamped with the current time.
func New(r role.Role, content string) Message {
	return NewAt(r, content, time.Now())
}

// NewAt creates a message with a fresh unique ID and the given timestamp.
func NewAt(r role.Role, content string, ts time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      r,
		Content:   content,
		Timestamp: ts,
	}
}

// Clock returns the timestamp formatted for display.
func (m Message) Clock() string {
	return m.Timestamp.Format(ClockLayout)
}
