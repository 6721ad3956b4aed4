package domain

import "time"

// LastMessage is a denormalized summary of the newest message in a
// conversation. It is maintained exclusively by the chat service's
// mutation methods.
type LastMessage struct {
	Text      string
	Timestamp time.Time
	SenderID  string
	Read      bool
}

// Conversation is a two-party exchange of messages. Participant order is
// insignificant for matching but preserved for display stability.
type Conversation struct {
	ID           string
	Participants []string
	LastMessage  *LastMessage
}

func NewConversation(id string, participants ...string) *Conversation {
	return &Conversation{
		ID:           id,
		Participants: participants,
	}
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not the given user, or
// an empty string when the user is not part of the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

// LastMessageTime returns the timestamp of the last-message summary, or the
// zero time when the conversation has no messages yet. Conversations without
// messages sort last in the inbox because of the zero value.
func (c *Conversation) LastMessageTime() time.Time {
	if c.LastMessage == nil {
		return time.Time{}
	}
	return c.LastMessage.Timestamp
}

// Clone returns a deep copy, so callers can hand out snapshots without
// exposing store-owned state.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:           c.ID,
		Participants: append([]string(nil), c.Participants...),
	}
	if c.LastMessage != nil {
		lm := *c.LastMessage
		clone.LastMessage = &lm
	}
	return clone
}
