package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"pingme/internal/domain"
	"pingme/internal/seed"
)

// memSessionRepo is an in-memory stand-in for the sqlite-backed repository.
type memSessionRepo struct {
	mu   sync.Mutex
	user *domain.User
}

func (r *memSessionRepo) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.user = &u
	return nil
}

func (r *memSessionRepo) Load(_ context.Context) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user == nil {
		return nil, nil
	}
	u := *r.user
	return &u, nil
}

func (r *memSessionRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = nil
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *recordingNotifier) Notify(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.titles) == 0 {
		return ""
	}
	return n.titles[len(n.titles)-1]
}

func setupSession(t *testing.T) (*SessionService, *memSessionRepo, *recordingNotifier) {
	t.Helper()
	repo := &memSessionRepo{}
	notifier := &recordingNotifier{}
	svc := NewSessionService(repo, domain.NewEventBus(), seed.Data{}.Accounts(), seed.Password, notifier, 0)
	return svc, repo, notifier
}

func TestLoginWithValidCredentials(t *testing.T) {
	svc, repo, _ := setupSession(t)
	ctx := context.Background()

	if !svc.Login(ctx, "john@example.com", "password") {
		t.Fatalf("expected login to succeed")
	}

	user := svc.Current()
	if user == nil || user.ID != "1" || user.Name != "John Doe" {
		t.Fatalf("unexpected identity after login: %+v", user)
	}

	stored, err := repo.Load(ctx)
	if err != nil || stored == nil || stored.ID != "1" {
		t.Fatalf("expected identity persisted, got %+v err=%v", stored, err)
	}
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	svc, _, _ := setupSession(t)

	if !svc.Login(context.Background(), "John@Example.COM", "password") {
		t.Fatalf("expected case-insensitive email match")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo, notifier := setupSession(t)
	ctx := context.Background()

	if svc.Login(ctx, "john@example.com", "wrong") {
		t.Fatalf("expected wrong password to fail")
	}
	if svc.Login(ctx, "nobody@example.com", "password") {
		t.Fatalf("expected unknown email to fail")
	}
	if svc.Current() != nil {
		t.Fatalf("identity must stay unchanged after failed login")
	}
	if stored, _ := repo.Load(ctx); stored != nil {
		t.Fatalf("nothing should be persisted on failure")
	}
	if notifier.last() != "Login Failed" {
		t.Fatalf("expected a failure notification, got %q", notifier.last())
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, notifier := setupSession(t)

	if svc.Register(context.Background(), "Impostor", "JOHN@example.com", "secret") {
		t.Fatalf("expected duplicate email to fail")
	}
	if svc.Current() != nil {
		t.Fatalf("identity must stay unchanged after failed registration")
	}
	if notifier.last() != "Registration Failed" {
		t.Fatalf("expected a failure notification, got %q", notifier.last())
	}
}

func TestRegisterCreatesIdentity(t *testing.T) {
	svc, repo, _ := setupSession(t)
	ctx := context.Background()

	if !svc.Register(ctx, "New Person", "new@example.com", "whatever") {
		t.Fatalf("expected registration to succeed")
	}

	user := svc.Current()
	if user == nil || user.Name != "New Person" || user.Email != "new@example.com" {
		t.Fatalf("unexpected identity after register: %+v", user)
	}
	if user.ID == "" {
		t.Fatalf("expected a generated id")
	}
	for _, profile := range (seed.Data{}).Profiles(time.Now()) {
		if user.ID == profile.ID {
			t.Fatalf("generated id %q collides with seeded profile %q", user.ID, profile.Name)
		}
	}
	if user.Avatar == "" {
		t.Fatalf("expected a placeholder avatar")
	}
	if stored, _ := repo.Load(ctx); stored == nil || stored.Email != "new@example.com" {
		t.Fatalf("expected identity persisted, got %+v", stored)
	}
}

func TestRegisteredUserCanLogBackIn(t *testing.T) {
	svc, _, _ := setupSession(t)
	ctx := context.Background()

	if !svc.Register(ctx, "New Person", "new@example.com", "whatever") {
		t.Fatalf("registration failed")
	}
	svc.Logout(ctx)
	if svc.Current() != nil {
		t.Fatalf("expected logged-out state")
	}

	if !svc.Login(ctx, "new@example.com", seed.Password) {
		t.Fatalf("expected registered account to log back in")
	}
}

func TestLogoutClearsIdentityAndRecord(t *testing.T) {
	svc, repo, _ := setupSession(t)
	ctx := context.Background()

	svc.Login(ctx, "john@example.com", "password")
	svc.Logout(ctx)

	if svc.Current() != nil {
		t.Fatalf("expected nil identity after logout")
	}
	if stored, _ := repo.Load(ctx); stored != nil {
		t.Fatalf("expected durable record cleared, got %+v", stored)
	}

	// Idempotent
	svc.Logout(ctx)
}

func TestRestoreLoadsPersistedIdentity(t *testing.T) {
	repo := &memSessionRepo{}
	ctx := context.Background()
	repo.Save(ctx, &domain.User{ID: "2", Name: "Jane Smith", Email: "jane@example.com"})

	svc := NewSessionService(repo, domain.NewEventBus(), seed.Data{}.Accounts(), seed.Password, nil, 0)
	if err := svc.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	user := svc.Current()
	if user == nil || user.ID != "2" {
		t.Fatalf("expected restored identity, got %+v", user)
	}
	if svc.Loading() {
		t.Fatalf("loading must be false after restore")
	}
}

func TestRestoreWithEmptyStore(t *testing.T) {
	svc, _, _ := setupSession(t)

	if err := svc.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if svc.Current() != nil {
		t.Fatalf("expected logged-out state, got %+v", svc.Current())
	}
}

func TestLoginPublishesSessionChange(t *testing.T) {
	repo := &memSessionRepo{}
	bus := domain.NewEventBus()
	svc := NewSessionService(repo, bus, seed.Data{}.Accounts(), seed.Password, nil, 0)

	events := bus.Subscribe([]domain.EventType{domain.EventTypeSessionChanged})
	svc.Login(context.Background(), "john@example.com", "password")

	select {
	case event := <-events:
		ev, ok := event.(domain.SessionChangedEvent)
		if !ok || ev.User == nil || ev.User.ID != "1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	default:
		t.Fatalf("expected a session.changed event")
	}
}
