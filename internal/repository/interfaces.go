package repository

import (
	"context"

	"pingme/internal/domain"
)

// SessionRepository persists the signed-in identity as a single JSON
// record. Load returns (nil, nil) when no identity is stored; a record
// that cannot be decoded is cleared and treated as absent.
type SessionRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Load(ctx context.Context) (*domain.User, error)
	Clear(ctx context.Context) error
}
