package chatbox

import "time"

// Sender identifies who authored a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

// String returns "user" or "bot".
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Message represents a single entry of a conversation.
// Messages are values; once appended they are never modified.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage returns a message authored by the user.
func NewUserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text, Timestamp: time.Now()}
}

// NewBotMessage returns a message authored by the bot.
func NewBotMessage(text string) Message {
	return Message{Sender: SenderBot, Text: text, Timestamp: time.Now()}
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
