package domain

import (
	"testing"
	"time"
)

func TestPreviewFallsBackForImageOnly(t *testing.T) {
	msg := NewImageMessage("m1", "chat1", "1", "", "https://example.com/pic.png", time.Now())
	if got := msg.Preview(); got != "Sent an image" {
		t.Fatalf("expected image fallback preview, got %q", got)
	}

	msg = NewImageMessage("m2", "chat1", "1", "look at this", "https://example.com/pic.png", time.Now())
	if got := msg.Preview(); got != "look at this" {
		t.Fatalf("expected caption preview, got %q", got)
	}
}

func TestGroupByDaySameDate(t *testing.T) {
	base := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	msgs := []*Message{
		NewTextMessage("1", "chat1", "1", "morning", base),
		NewTextMessage("2", "chat1", "2", "evening", base.Add(10*time.Hour)),
	}

	groups := GroupByDay(msgs)
	if len(groups) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(groups))
	}
	if len(groups[0].Messages) != 2 {
		t.Fatalf("expected 2 messages in bucket, got %d", len(groups[0].Messages))
	}
}

func TestGroupByDayAcrossDates(t *testing.T) {
	base := time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)
	msgs := []*Message{
		NewTextMessage("1", "chat1", "1", "late", base),
		NewTextMessage("2", "chat1", "2", "early", base.Add(time.Hour)),
		NewTextMessage("3", "chat1", "1", "later", base.Add(26*time.Hour)),
	}

	groups := GroupByDay(msgs)
	if len(groups) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(groups))
	}
	for i := 1; i < len(groups); i++ {
		if !groups[i-1].Date.Before(groups[i].Date) {
			t.Fatalf("buckets out of chronological order: %v then %v", groups[i-1].Date, groups[i].Date)
		}
	}
	if groups[1].Date.Day() != 15 {
		t.Fatalf("expected middle bucket on the 15th, got %v", groups[1].Date)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if groups := GroupByDay(nil); len(groups) != 0 {
		t.Fatalf("expected no buckets for empty history, got %d", len(groups))
	}
}

func TestConversationOtherParticipant(t *testing.T) {
	conv := NewConversation("chat1", "1", "3")

	if got := conv.OtherParticipant("1"); got != "3" {
		t.Fatalf("expected other participant 3, got %q", got)
	}
	if got := conv.OtherParticipant("3"); got != "1" {
		t.Fatalf("expected other participant 1, got %q", got)
	}
	if got := conv.OtherParticipant("99"); got != "" {
		t.Fatalf("expected empty for non-participant, got %q", got)
	}
}

func TestConversationLastMessageTimeZeroWhenEmpty(t *testing.T) {
	conv := NewConversation("chat1", "1", "3")
	if !conv.LastMessageTime().IsZero() {
		t.Fatalf("expected zero time for conversation without messages")
	}
}

func TestConversationCloneIsIndependent(t *testing.T) {
	conv := NewConversation("chat1", "1", "3")
	conv.LastMessage = &LastMessage{Text: "hi", SenderID: "3"}

	clone := conv.Clone()
	clone.LastMessage.Read = true
	clone.Participants[0] = "changed"

	if conv.LastMessage.Read {
		t.Fatalf("clone mutation leaked into original last message")
	}
	if conv.Participants[0] != "1" {
		t.Fatalf("clone mutation leaked into original participants")
	}
}
