// Package chat provides the append-only conversation store.
package chat

import (
	"context"
	"sync"

	"github.com/germanamz/chatbench/pkg/chats/message"
)

// Chat is an append-only conversation container. Messages are never mutated
// or removed once appended. The zero value is ready to use and Chat is safe
// for concurrent use.
type Chat struct {
	mu       sync.RWMutex
	messages []message.Message
	notify   chan struct{}
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the end of the conversation and wakes
// any goroutine blocked in Wait.
func (c *Chat) Append(msgs ...message.Message) {
	if len(msgs) == 0 {
		return
	}

	c.mu.Lock()
	c.messages = append(c.messages, msgs...)
	ch := c.notify
	c.notify = nil
	c.mu.Unlock()

	if ch != nil {
		close(ch)
	}
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.messages)
}

// At returns the message at the given index.
// It panics if the index is out of range.
func (c *Chat) At(index int) message.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.messages[index]
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Since returns a copy of the messages appended at or after cursor.
// A cursor beyond the end yields nil.
func (c *Chat) Since(cursor int) []message.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(c.messages) {
		return nil
	}

	cp := make([]message.Message, len(c.messages)-cursor)
	copy(cp, c.messages[cursor:])
	return cp
}

// Wait blocks until the conversation holds more than cursor messages or ctx
// is done. It returns the current length.
func (c *Chat) Wait(ctx context.Context, cursor int) (int, error) {
	for {
		c.mu.Lock()
		if n := len(c.messages); n > cursor {
			c.mu.Unlock()
			return n, nil
		}
		if c.notify == nil {
			c.notify = make(chan struct{})
		}
		ch := c.notify
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return c.Len(), ctx.Err()
		case <-ch:
		}
	}
}
