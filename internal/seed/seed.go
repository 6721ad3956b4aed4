// Package seed holds the fixed substitute for a real backend: the account
// directory, the participant profiles, and the conversation history. The
// chat store is volatile and rebuilt from this data on every session start,
// so message timestamps are expressed as offsets from the load time.
package seed

import (
	"time"

	"pingme/internal/domain"
)

// Password is the single shared sentinel accepted for every seeded account.
const Password = "password"

// Data exposes the seeded state. The zero value is ready to use.
type Data struct{}

// Accounts returns the directory login/register checks run against.
func (Data) Accounts() []domain.User {
	return []domain.User{
		{
			ID:     "1",
			Name:   "John Doe",
			Email:  "john@example.com",
			Avatar: domain.PlaceholderAvatar("John"),
		},
		{
			ID:     "2",
			Name:   "Jane Smith",
			Email:  "jane@example.com",
			Avatar: domain.PlaceholderAvatar("Jane"),
		},
	}
}

// Profiles returns the participant directory keyed by user id.
func (Data) Profiles(now time.Time) map[string]domain.Profile {
	return map[string]domain.Profile{
		"1": {
			ID:     "1",
			Name:   "John Doe",
			Avatar: domain.PlaceholderAvatar("John"),
			Online: true,
		},
		"2": {
			ID:     "2",
			Name:   "Jane Smith",
			Avatar: domain.PlaceholderAvatar("Jane"),
			Online: true,
		},
		"3": {
			ID:         "3",
			Name:       "Alex Johnson",
			Avatar:     domain.PlaceholderAvatar("Alex"),
			Online:     false,
			LastActive: now.Add(-30 * time.Minute),
		},
		"4": {
			ID:     "4",
			Name:   "Sarah Williams",
			Avatar: domain.PlaceholderAvatar("Sarah"),
			Online: true,
		},
	}
}

// Conversations returns every seeded conversation with its last-message
// summary. The store filters these down to the session user's subset.
func (Data) Conversations(now time.Time) []*domain.Conversation {
	return []*domain.Conversation{
		{
			ID:           "chat1",
			Participants: []string{"1", "3"},
			LastMessage: &domain.LastMessage{
				Text:      "Hey, how are you doing?",
				Timestamp: now.Add(-5 * time.Minute),
				SenderID:  "3",
				Read:      false,
			},
		},
		{
			ID:           "chat2",
			Participants: []string{"1", "4"},
			LastMessage: &domain.LastMessage{
				Text:      "Let me know when you're free",
				Timestamp: now.Add(-time.Hour),
				SenderID:  "4",
				Read:      true,
			},
		},
		{
			ID:           "chat3",
			Participants: []string{"1", "2"},
			LastMessage: &domain.LastMessage{
				Text:      "Sure, I'll get back to you with those files",
				Timestamp: now.Add(-3 * time.Hour),
				SenderID:  "1",
				Read:      true,
			},
		},
	}
}

// Messages returns the seeded history keyed by conversation id, oldest
// first. The newest entry of each sequence matches the conversation's
// last-message summary.
func (Data) Messages(now time.Time) map[string][]*domain.Message {
	read := func(m *domain.Message) *domain.Message {
		m.Read = true
		return m
	}

	return map[string][]*domain.Message{
		"chat1": {
			read(domain.NewTextMessage("1", "chat1", "1", "Hi Alex, do you have time to catch up?", now.Add(-30*time.Minute))),
			read(domain.NewTextMessage("2", "chat1", "3", "Sure, I'm available this afternoon.", now.Add(-20*time.Minute))),
			read(domain.NewTextMessage("3", "chat1", "1", "Great! Let's talk at 2pm then.", now.Add(-10*time.Minute))),
			domain.NewTextMessage("4", "chat1", "3", "Hey, how are you doing?", now.Add(-5*time.Minute)),
		},
		"chat2": {
			read(domain.NewTextMessage("1", "chat2", "4", "Hi there! I wanted to discuss the project timeline.", now.Add(-120*time.Minute))),
			read(domain.NewTextMessage("2", "chat2", "1", "Hello Sarah, I'm a bit busy right now.", now.Add(-90*time.Minute))),
			read(domain.NewTextMessage("3", "chat2", "4", "No problem, whenever you have time.", now.Add(-80*time.Minute))),
			read(domain.NewTextMessage("4", "chat2", "4", "Let me know when you're free", now.Add(-60*time.Minute))),
		},
		"chat3": {
			read(domain.NewTextMessage("1", "chat3", "2", "Could you send me those design files?", now.Add(-5*time.Hour))),
			read(domain.NewTextMessage("2", "chat3", "1", "Yes, I'll prepare them right away.", now.Add(-4*time.Hour))),
			read(domain.NewTextMessage("3", "chat3", "2", "Thank you! I need them by tomorrow.", now.Add(-210*time.Minute))),
			read(domain.NewTextMessage("4", "chat3", "1", "Sure, I'll get back to you with those files", now.Add(-3*time.Hour))),
		},
	}
}
