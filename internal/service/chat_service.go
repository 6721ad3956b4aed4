package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pingme/internal/domain"
	"pingme/internal/logger"
)

// Seeder supplies the synthesized backend state the store is rebuilt from
// whenever a session starts.
type Seeder interface {
	Profiles(now time.Time) map[string]domain.Profile
	Conversations(now time.Time) []*domain.Conversation
	Messages(now time.Time) map[string][]*domain.Message
}

// ChatService is the single source of truth for conversations and messages,
// scoped to the current session user. All state is volatile: Initialize
// repopulates it from seed data and Clear drops it on logout.
//
// The last-message summary on each conversation is maintained only by
// SendMessage and MarkAsRead; queries hand out clones, never live state.
type ChatService struct {
	source Seeder
	bus    domain.EventBus
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	current  *domain.User
	order    []*domain.Conversation
	convs    map[string]*domain.Conversation
	messages map[string][]*domain.Message
	profiles map[string]domain.Profile
	typing   map[string]domain.TypingStatus
}

func NewChatService(source Seeder, bus domain.EventBus) *ChatService {
	return &ChatService{
		source: source,
		bus:    bus,
		logger: logger.Module("chat"),
		now:    time.Now,
	}
}

// Initialize populates the store with the subset of seed conversations the
// given user participates in. A nil user clears the store instead.
func (s *ChatService) Initialize(user *domain.User) {
	if user == nil {
		s.Clear()
		return
	}

	now := s.now()
	seedConvs := s.source.Conversations(now)
	seedMsgs := s.source.Messages(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	account := *user
	s.current = &account
	s.order = nil
	s.convs = make(map[string]*domain.Conversation)
	s.messages = make(map[string][]*domain.Message)
	s.profiles = s.source.Profiles(now)
	s.typing = make(map[string]domain.TypingStatus)

	for _, conv := range seedConvs {
		if !conv.HasParticipant(user.ID) {
			continue
		}
		c := conv.Clone()
		s.order = append(s.order, c)
		s.convs[c.ID] = c
		for _, msg := range seedMsgs[c.ID] {
			s.messages[c.ID] = append(s.messages[c.ID], msg.Clone())
		}
	}

	s.logger.Info().Str("user", user.ID).Int("conversations", len(s.order)).Msg("store initialized")
}

// Clear drops all conversation state. Called on logout.
func (s *ChatService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.order = nil
	s.convs = nil
	s.messages = nil
	s.profiles = nil
	s.typing = nil
}

// SendMessage appends a new message authored by the session user and
// refreshes the conversation's last-message summary. Timestamps never move
// backwards within a conversation, even if the wall clock does.
func (s *ChatService) SendMessage(chatID, text, image string) (*domain.Message, error) {
	if text == "" && image == "" {
		return nil, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, domain.ErrNoSession
	}
	conv, ok := s.convs[chatID]
	if !ok {
		return nil, fmt.Errorf("send to %q: %w", chatID, domain.ErrNotFound)
	}

	timestamp := s.now()
	if history := s.messages[chatID]; len(history) > 0 {
		if last := history[len(history)-1].Timestamp; timestamp.Before(last) {
			timestamp = last
		}
	}

	var msg *domain.Message
	if image != "" {
		msg = domain.NewImageMessage(uuid.NewString(), chatID, s.current.ID, text, image, timestamp)
	} else {
		msg = domain.NewTextMessage(uuid.NewString(), chatID, s.current.ID, text, timestamp)
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	conv.LastMessage = &domain.LastMessage{
		Text:      msg.Preview(),
		Timestamp: timestamp,
		SenderID:  s.current.ID,
		Read:      false,
	}

	s.logger.Debug().Str("chat", chatID).Str("message", msg.ID).Msg("message sent")
	s.publish(domain.MessageSentEvent{Message: msg.Clone(), EventTime: timestamp})
	return msg.Clone(), nil
}

// MarkAsRead flips every message from the other participant to read, along
// with the last-message summary when it was theirs. Idempotent.
func (s *ChatService) MarkAsRead(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNoSession
	}
	conv, ok := s.convs[chatID]
	if !ok {
		return fmt.Errorf("mark read %q: %w", chatID, domain.ErrNotFound)
	}

	changed := false
	for _, msg := range s.messages[chatID] {
		if msg.SenderID != s.current.ID && !msg.Read {
			msg.Read = true
			changed = true
		}
	}
	if conv.LastMessage != nil && conv.LastMessage.SenderID != s.current.ID && !conv.LastMessage.Read {
		conv.LastMessage.Read = true
		changed = true
	}

	if changed {
		s.publish(domain.ChatReadEvent{ChatID: chatID, EventTime: s.now()})
	}
	return nil
}

// UnreadCount counts unread messages from the other participant. Unknown
// conversations and logged-out sessions count as zero, not as errors.
func (s *ChatService) UnreadCount(chatID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return 0
	}
	count := 0
	for _, msg := range s.messages[chatID] {
		if msg.SenderID != s.current.ID && !msg.Read {
			count++
		}
	}
	return count
}

// TypingStatus returns the transient typing indicator for a conversation,
// defaulting to not-typing for absent entries.
func (s *ChatService) TypingStatus(chatID string) domain.TypingStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing[chatID]
}

// SetTyping records a typing indicator. Nothing in this demo calls it with
// true on its own; it is the hook a real presence feed would drive.
func (s *ChatService) SetTyping(chatID, userID string, isTyping bool) error {
	s.mu.Lock()
	if _, ok := s.convs[chatID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("typing %q: %w", chatID, domain.ErrNotFound)
	}
	status := domain.TypingStatus{IsTyping: isTyping, UserID: userID}
	if !isTyping {
		status.UserID = ""
	}
	s.typing[chatID] = status
	s.mu.Unlock()

	s.publish(domain.TypingUpdatedEvent{ChatID: chatID, Status: status, EventTime: s.now()})
	return nil
}

// Conversations returns a snapshot of the inbox: sorted descending by
// last-message time and filtered by a case-insensitive substring match on
// the other participant's name. An empty filter matches everything.
func (s *ChatService) Conversations(filter string) []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}

	filter = strings.ToLower(filter)
	var result []*domain.Conversation
	for _, conv := range s.order {
		other, ok := s.profiles[conv.OtherParticipant(s.current.ID)]
		if !ok {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(other.Name), filter) {
			continue
		}
		result = append(result, conv.Clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastMessageTime().After(result[j].LastMessageTime())
	})
	return result
}

// Conversation returns a snapshot of a single conversation.
func (s *ChatService) Conversation(chatID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[chatID]
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", chatID, domain.ErrNotFound)
	}
	return conv.Clone(), nil
}

// Messages returns a snapshot of a conversation's history, oldest first.
func (s *ChatService) Messages(chatID string) []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[chatID]
	result := make([]*domain.Message, 0, len(history))
	for _, msg := range history {
		result = append(result, msg.Clone())
	}
	return result
}

// MessagesByDay returns the conversation history bucketed by calendar date,
// in chronological order.
func (s *ChatService) MessagesByDay(chatID string) []domain.DayGroup {
	return domain.GroupByDay(s.Messages(chatID))
}

// Profile looks up a participant directory entry.
func (s *ChatService) Profile(userID string) (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	return profile, ok
}

// OtherParticipant resolves the profile of the conversation partner.
func (s *ChatService) OtherParticipant(conv *domain.Conversation) (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || conv == nil {
		return domain.Profile{}, false
	}
	profile, ok := s.profiles[conv.OtherParticipant(s.current.ID)]
	return profile, ok
}

// Current returns a copy of the user the store is scoped to.
func (s *ChatService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

func (s *ChatService) publish(event domain.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
