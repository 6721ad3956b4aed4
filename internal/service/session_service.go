package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pingme/internal/domain"
	"pingme/internal/logger"
	"pingme/internal/repository"
)

// SessionService owns the signed-in identity. Login and register resolve
// against an in-process account directory after a fixed simulated latency;
// the identity survives restarts through the session repository.
//
// Calls are serialized by the service mutex, so overlapping login attempts
// resolve one after another and the last one to finish wins.
type SessionService struct {
	repo     repository.SessionRepository
	bus      domain.EventBus
	notifier Notifier
	delay    time.Duration
	password string
	logger   zerolog.Logger

	mu        sync.RWMutex
	directory []domain.User
	current   *domain.User
	loading   bool
}

func NewSessionService(
	repo repository.SessionRepository,
	bus domain.EventBus,
	directory []domain.User,
	password string,
	notifier Notifier,
	delay time.Duration,
) *SessionService {
	if notifier == nil {
		notifier = NopNotifier
	}
	return &SessionService{
		repo:      repo,
		bus:       bus,
		notifier:  notifier,
		delay:     delay,
		password:  password,
		directory: append([]domain.User(nil), directory...),
		logger:    logger.Module("session"),
	}
}

// Restore loads a previously persisted identity. A missing or unreadable
// record leaves the session logged out. Loading reports true only while
// this initial restore is running.
func (s *SessionService) Restore(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	user, err := s.repo.Load(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = user
	s.mu.Unlock()

	if user != nil {
		s.logger.Info().Str("user", user.ID).Msg("restored session")
		s.publishChange(user)
	}
	return nil
}

// Login resolves an email against the directory. Email matching is
// case-insensitive; the password must equal the shared demo sentinel.
func (s *SessionService) Login(ctx context.Context, email, password string) bool {
	if err := s.simulateLatency(ctx); err != nil {
		return false
	}

	s.mu.Lock()
	user := s.lookupLocked(email)
	if user == nil || password != s.password {
		s.mu.Unlock()
		s.logger.Debug().Str("email", email).Msg("login rejected")
		s.notifier.Notify("Login Failed", domain.ErrInvalidCredentials.Error())
		return false
	}

	account := *user
	s.current = &account
	s.mu.Unlock()

	s.persist(ctx, &account)
	s.logger.Info().Str("user", account.ID).Msg("logged in")
	s.publishChange(&account)
	return true
}

// Register creates a new identity unless the email is already taken. The
// new account joins the in-process directory, so it can log back in later
// in the same run; the directory itself is not durable.
func (s *SessionService) Register(ctx context.Context, name, email, password string) bool {
	if err := s.simulateLatency(ctx); err != nil {
		return false
	}

	s.mu.Lock()
	if s.lookupLocked(email) != nil {
		s.mu.Unlock()
		s.logger.Debug().Str("email", email).Msg("registration rejected")
		s.notifier.Notify("Registration Failed", domain.ErrEmailTaken.Error())
		return false
	}

	// Random ids keep new accounts clear of the seeded profile id range.
	account := *domain.NewUser(uuid.NewString(), name, email)
	s.directory = append(s.directory, account)
	s.current = &account
	s.mu.Unlock()

	s.persist(ctx, &account)
	s.logger.Info().Str("user", account.ID).Msg("registered")
	s.publishChange(&account)
	return true
}

// Logout clears the identity and its durable record. Safe to call when
// already logged out.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	wasLoggedIn := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session record")
	}
	if wasLoggedIn {
		s.logger.Info().Msg("logged out")
		s.notifier.Notify("Logged out", "You have been successfully logged out")
		s.publishChange(nil)
	}
}

// Current returns a copy of the signed-in user, or nil when logged out.
func (s *SessionService) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SessionService) lookupLocked(email string) *domain.User {
	for i := range s.directory {
		if strings.EqualFold(s.directory[i].Email, email) {
			return &s.directory[i]
		}
	}
	return nil
}

func (s *SessionService) simulateLatency(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionService) persist(ctx context.Context, user *domain.User) {
	if err := s.repo.Save(ctx, user); err != nil {
		// The session stays usable in memory; only restarts lose it.
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}

func (s *SessionService) publishChange(user *domain.User) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(domain.SessionChangedEvent{User: user, EventTime: time.Now()})
}
