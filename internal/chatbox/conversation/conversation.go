package conversation

import (
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/chatbox/internal/chatbox"
)

// Conversation is the ordered, append-only message list of one chat session.
// It is not safe for concurrent use; the coordinator owns it.
type Conversation struct {
	id        string // UUID v4, used to correlate log lines
	createdAt time.Time
	updatedAt time.Time
	messages  []chatbox.Message
}

// New creates an empty conversation with a fresh session ID
func New() *Conversation {
	now := time.Now()
	return &Conversation{
		id:        uuid.New().String(),
		createdAt: now,
		updatedAt: now,
		messages:  []chatbox.Message{},
	}
}

// Append adds a message to the end of the conversation.
// There is no validation, deduplication or size cap.
func (c *Conversation) Append(msg chatbox.Message) {
	c.messages = append(c.messages, msg)
	c.updatedAt = time.Now()
}

// Render returns a lazy sequence of (position, message) pairs, oldest first.
// The sequence can be ranged over any number of times; each pass observes
// the messages present when it starts.
func (c *Conversation) Render() iter.Seq2[int, chatbox.Message] {
	return func(yield func(int, chatbox.Message) bool) {
		n := len(c.messages)
		for i := 0; i < n; i++ {
			if !yield(i, c.messages[i]) {
				return
			}
		}
	}
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	return len(c.messages)
}

// At returns the message at position i.
func (c *Conversation) At(i int) (chatbox.Message, bool) {
	if i < 0 || i >= len(c.messages) {
		return chatbox.Message{}, false
	}
	return c.messages[i], true
}

// Last returns the newest message.
func (c *Conversation) Last() (chatbox.Message, bool) {
	return c.At(len(c.messages) - 1)
}

// Messages returns a copy of the messages
func (c *Conversation) Messages() []chatbox.Message {
	out := make([]chatbox.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ID returns the session ID
func (c *Conversation) ID() string {
	return c.id
}

// ShortID returns the shortened session ID (first 8 characters)
func (c *Conversation) ShortID() string {
	if len(c.id) >= 8 {
		return c.id[:8]
	}
	return c.id
}

// CreatedAt returns when the conversation was started
func (c *Conversation) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the last message was appended
func (c *Conversation) UpdatedAt() time.Time {
	return c.updatedAt
}
