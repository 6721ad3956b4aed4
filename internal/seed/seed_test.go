package seed

import (
	"testing"
	"time"
)

func TestLastMessageMirrorsNewestSeededMessage(t *testing.T) {
	now := time.Now()
	data := Data{}
	messages := data.Messages(now)

	for _, conv := range data.Conversations(now) {
		history := messages[conv.ID]
		if len(history) == 0 {
			t.Fatalf("conversation %s has no seeded messages", conv.ID)
		}
		newest := history[len(history)-1]

		lm := conv.LastMessage
		if lm == nil {
			t.Fatalf("conversation %s has no last-message summary", conv.ID)
		}
		if lm.Text != newest.Text || lm.SenderID != newest.SenderID || !lm.Timestamp.Equal(newest.Timestamp) || lm.Read != newest.Read {
			t.Fatalf("conversation %s summary out of sync: %+v vs %+v", conv.ID, lm, newest)
		}
	}
}

func TestMessagesAreAppendOrdered(t *testing.T) {
	now := time.Now()
	for chatID, history := range (Data{}).Messages(now) {
		for i := 1; i < len(history); i++ {
			if history[i].Timestamp.Before(history[i-1].Timestamp) {
				t.Fatalf("%s message %s is older than its predecessor", chatID, history[i].ID)
			}
			if history[i].ChatID != chatID {
				t.Fatalf("%s message %s carries wrong chat id %s", chatID, history[i].ID, history[i].ChatID)
			}
		}
	}
}

func TestEveryParticipantHasAProfile(t *testing.T) {
	now := time.Now()
	data := Data{}
	profiles := data.Profiles(now)

	for _, conv := range data.Conversations(now) {
		if len(conv.Participants) != 2 {
			t.Fatalf("conversation %s is not two-party: %v", conv.ID, conv.Participants)
		}
		for _, id := range conv.Participants {
			if _, ok := profiles[id]; !ok {
				t.Fatalf("participant %s of %s has no profile", id, conv.ID)
			}
		}
	}
}

func TestAccountsAreDiscoverableProfiles(t *testing.T) {
	now := time.Now()
	data := Data{}
	profiles := data.Profiles(now)

	for _, account := range data.Accounts() {
		profile, ok := profiles[account.ID]
		if !ok {
			t.Fatalf("account %s has no profile entry", account.ID)
		}
		if profile.Name != account.Name {
			t.Fatalf("account %s name mismatch: %q vs %q", account.ID, account.Name, profile.Name)
		}
	}
}
