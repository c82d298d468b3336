// Package models contains the data types shared by llmtui components.
package models

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single chat message. Immutable once appended.
type Message struct {
	Role    Role
	Content string
}

// UserMessage creates a message authored by the user
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the model
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Conversation is a named, ordered thread of messages.
// The ID is stable for the lifetime of the process.
type Conversation struct {
	ID       string
	Name     string
	Messages []Message
}

// Title returns the display name, falling back to the ID
func (c Conversation) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return "Conversation " + c.ID
}

// Clone returns a copy whose message slice is not shared
func (c Conversation) Clone() Conversation {
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}
