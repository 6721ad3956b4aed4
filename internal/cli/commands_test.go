package cli

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"pingme/internal/domain"
	"pingme/internal/seed"
	"pingme/internal/service"
)

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("/send chat1 Hello there")
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	if cmd.Name != "send" {
		t.Fatalf("expected name 'send', got %q", cmd.Name)
	}
	if len(cmd.Args) != 3 || cmd.Args[0] != "chat1" {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
}

func TestParseCommandRejectsBareText(t *testing.T) {
	if _, err := ParseCommand("hello"); err == nil {
		t.Fatalf("expected error for input without leading slash")
	}
	if _, err := ParseCommand("   "); err == nil {
		t.Fatalf("expected error for blank input")
	}
}

func TestPickEmoji(t *testing.T) {
	glyph, err := PickEmoji(1)
	if err != nil {
		t.Fatalf("PickEmoji failed: %v", err)
	}
	if glyph != Palette[0] {
		t.Fatalf("expected first palette glyph, got %q", glyph)
	}

	if _, err := PickEmoji(0); err == nil {
		t.Fatalf("expected error for index 0")
	}
	if _, err := PickEmoji(len(Palette) + 1); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

// memRepo keeps handler tests off the filesystem.
type memRepo struct {
	mu   sync.Mutex
	user *domain.User
}

func (r *memRepo) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.user = &u
	return nil
}

func (r *memRepo) Load(_ context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil {
		return nil, nil
	}
	u := *r.user
	return &u, nil
}

func (r *memRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = nil
	return nil
}

func setupHandler(t *testing.T) *CommandHandler {
	t.Helper()

	bus := domain.NewEventBus()
	data := seed.Data{}
	sessionSvc := service.NewSessionService(&memRepo{}, bus, data.Accounts(), seed.Password, nil, 0)
	chatSvc := service.NewChatService(data, bus)
	return NewCommandHandler(sessionSvc, chatSvc, bus)
}

func run(t *testing.T, h *CommandHandler, input string) interface{} {
	t.Helper()
	cmd, err := ParseCommand(input)
	if err != nil {
		t.Fatalf("ParseCommand(%q) failed: %v", input, err)
	}
	result, err := h.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", input, err)
	}
	return result
}

func TestHandlerLoginThenChats(t *testing.T) {
	h := setupHandler(t)

	result := run(t, h, "/login john@example.com password")
	info, ok := result.(SessionInfo)
	if !ok || !info.LoggedIn || info.User.Name != "John Doe" {
		t.Fatalf("unexpected login result: %+v", result)
	}

	result = run(t, h, "/chats")
	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected chats result: %+v", result)
	}
	chats := m["chats"].([]ChatInfo)
	if len(chats) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(chats))
	}
	if chats[0].ID != "chat1" || chats[0].UnreadCount != 1 {
		t.Fatalf("expected chat1 first with 1 unread, got %+v", chats[0])
	}
	if chats[0].Name != "Alex Johnson" {
		t.Fatalf("expected partner name on inbox row, got %q", chats[0].Name)
	}
}

func TestHandlerChatsRequiresSession(t *testing.T) {
	h := setupHandler(t)

	cmd, _ := ParseCommand("/chats")
	if _, err := h.Execute(context.Background(), cmd); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestHandlerOpenMarksRead(t *testing.T) {
	h := setupHandler(t)
	run(t, h, "/login john@example.com password")

	result := run(t, h, "/open chat1")
	view, ok := result.(ConversationView)
	if !ok {
		t.Fatalf("unexpected open result: %+v", result)
	}
	if view.PartnerName != "Alex Johnson" {
		t.Fatalf("expected partner header, got %q", view.PartnerName)
	}

	total := 0
	for _, day := range view.Days {
		total += len(day.Messages)
	}
	if total != 4 {
		t.Fatalf("expected 4 messages in view, got %d", total)
	}

	unread := run(t, h, "/unread chat1").(map[string]interface{})
	if unread["unread"].(int) != 0 {
		t.Fatalf("expected 0 unread after open, got %v", unread["unread"])
	}
}

func TestHandlerOpenUnknownChat(t *testing.T) {
	h := setupHandler(t)
	run(t, h, "/login john@example.com password")

	cmd, _ := ParseCommand("/open chat99")
	if _, err := h.Execute(context.Background(), cmd); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandlerSendJoinsArgs(t *testing.T) {
	h := setupHandler(t)
	run(t, h, "/login john@example.com password")

	result := run(t, h, "/send chat1 hello there friend")
	msg, ok := result.(MessageInfo)
	if !ok || msg.Text != "hello there friend" || !msg.IsFromMe {
		t.Fatalf("unexpected send result: %+v", result)
	}
}

func TestHandlerSendImage(t *testing.T) {
	h := setupHandler(t)
	run(t, h, "/login john@example.com password")

	result := run(t, h, "/sendimg chat1 https://example.com/pic.png")
	msg := result.(MessageInfo)
	if msg.Image != "https://example.com/pic.png" || msg.Text != "" {
		t.Fatalf("unexpected image message: %+v", msg)
	}

	chats := run(t, h, "/chats").(map[string]interface{})["chats"].([]ChatInfo)
	if chats[0].LastMessageText != "Sent an image" {
		t.Fatalf("expected image fallback in inbox, got %q", chats[0].LastMessageText)
	}
}

func TestHandlerRegisterAndLogout(t *testing.T) {
	h := setupHandler(t)

	result := run(t, h, "/register new@example.com secret New Person")
	info := result.(SessionInfo)
	if !info.LoggedIn || info.User.Name != "New Person" {
		t.Fatalf("unexpected register result: %+v", result)
	}

	// The fresh account has no seeded conversations.
	chats := run(t, h, "/chats").(map[string]interface{})["chats"].([]ChatInfo)
	if len(chats) != 0 {
		t.Fatalf("expected empty inbox for fresh account, got %d", len(chats))
	}

	run(t, h, "/logout")
	status := run(t, h, "/status").(SessionInfo)
	if status.LoggedIn {
		t.Fatalf("expected logged-out status after /logout")
	}
}

func TestHandlerChatsFilter(t *testing.T) {
	h := setupHandler(t)
	run(t, h, "/login john@example.com password")

	m := run(t, h, "/ls sarah").(map[string]interface{})
	chats := m["chats"].([]ChatInfo)
	if len(chats) != 1 || !strings.Contains(chats[0].Name, "Sarah") {
		t.Fatalf("expected only Sarah's conversation, got %+v", chats)
	}
}
