// Package conversation holds the provider-independent chat message types
// threaded through a review run. Provider adapters translate these into
// their own wire formats.
package conversation

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is an immutable role-tagged piece of text.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// System creates a system-role message.
func System(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

// User creates a user-role message.
func User(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// Assistant creates an assistant-role message.
func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// Conversation is an ordered, append-only message history.
type Conversation []Message

// Append returns a new Conversation with msgs added. The receiver is never
// modified and the result does not share a backing array with it, so a
// Conversation handed to an adapter stays stable while the run continues.
func (c Conversation) Append(msgs ...Message) Conversation {
	next := make(Conversation, 0, len(c)+len(msgs))
	next = append(next, c...)
	return append(next, msgs...)
}

// Last returns the most recent message and true, or a zero message and
// false when the conversation is empty.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}
