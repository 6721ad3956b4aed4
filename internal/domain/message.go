package domain

import "time"

// Message is a single entry in a conversation. Messages are created by the
// send operation and mutated only by mark-as-read; they are never deleted.
type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	Text      string
	Image     string
	Timestamp time.Time
	Read      bool
}

func NewTextMessage(id, chatID, senderID, text string, timestamp time.Time) *Message {
	return &Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: timestamp,
	}
}

func NewImageMessage(id, chatID, senderID, text, image string, timestamp time.Time) *Message {
	return &Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Image:     image,
		Timestamp: timestamp,
	}
}

// Preview returns the inbox display text for the message, with a fallback
// for image-only messages.
func (m *Message) Preview() string {
	if m.Text == "" && m.Image != "" {
		return "Sent an image"
	}
	return m.Text
}

func (m *Message) Clone() *Message {
	clone := *m
	return &clone
}

// TypingStatus is the transient typing indicator for a conversation. The
// zero value is the documented default for conversations with no status.
type TypingStatus struct {
	IsTyping bool
	UserID   string
}

// DayGroup is a run of messages sharing a calendar date.
type DayGroup struct {
	Date     time.Time
	Messages []*Message
}

// GroupByDay partitions messages into calendar-day buckets, preserving the
// input order. Messages arrive append-ordered, so buckets come out in
// chronological order.
func GroupByDay(messages []*Message) []DayGroup {
	var groups []DayGroup
	for _, msg := range messages {
		date := dayOf(msg.Timestamp)
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(date) {
			groups = append(groups, DayGroup{Date: date})
		}
		groups[len(groups)-1].Messages = append(groups[len(groups)-1].Messages, msg)
	}
	return groups
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
