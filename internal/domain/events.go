package domain

import (
	"sync"
	"time"
)

type EventType string

const (
	EventTypeMessageSent    EventType = "message.sent"
	EventTypeChatRead       EventType = "chat.read"
	EventTypeTypingUpdated  EventType = "typing.updated"
	EventTypeSessionChanged EventType = "session.changed"
)

type Event interface {
	Type() EventType
	Timestamp() time.Time
}

type MessageSentEvent struct {
	Message   *Message
	EventTime time.Time
}

func (e MessageSentEvent) Type() EventType      { return EventTypeMessageSent }
func (e MessageSentEvent) Timestamp() time.Time { return e.EventTime }

type ChatReadEvent struct {
	ChatID    string
	EventTime time.Time
}

func (e ChatReadEvent) Type() EventType      { return EventTypeChatRead }
func (e ChatReadEvent) Timestamp() time.Time { return e.EventTime }

type TypingUpdatedEvent struct {
	ChatID    string
	Status    TypingStatus
	EventTime time.Time
}

func (e TypingUpdatedEvent) Type() EventType      { return EventTypeTypingUpdated }
func (e TypingUpdatedEvent) Timestamp() time.Time { return e.EventTime }

// SessionChangedEvent carries the new identity; User is nil after logout.
type SessionChangedEvent struct {
	User      *User
	EventTime time.Time
}

func (e SessionChangedEvent) Type() EventType      { return EventTypeSessionChanged }
func (e SessionChangedEvent) Timestamp() time.Time { return e.EventTime }

// EventBus provides pub/sub for domain events
type EventBus interface {
	Publish(event Event)
	Subscribe(eventTypes []EventType) <-chan Event
	Unsubscribe(ch <-chan Event)
}

// SimpleEventBus is a basic in-memory implementation of EventBus
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers map[<-chan Event]subscription
}

type subscription struct {
	ch         chan Event
	eventTypes map[EventType]bool
}

func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[<-chan Event]subscription),
	}
}

func (b *SimpleEventBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if len(sub.eventTypes) == 0 || sub.eventTypes[event.Type()] {
			select {
			case sub.ch <- event:
			default:
				// Channel full, skip this subscriber
			}
		}
	}
}

func (b *SimpleEventBus) Subscribe(eventTypes []EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 100)
	typeMap := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeMap[t] = true
	}

	b.subscribers[ch] = subscription{
		ch:         ch,
		eventTypes: typeMap,
	}

	return ch
}

func (b *SimpleEventBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[ch]; ok {
		close(sub.ch)
		delete(b.subscribers, ch)
	}
}
