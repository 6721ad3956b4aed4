package domain

import (
	"fmt"
	"net/url"
	"time"
)

// User is the identity of a signed-in account. It is owned by the session
// provider; everything else refers to users by id only.
type User struct {
	ID     string
	Name   string
	Email  string
	Avatar string
}

func NewUser(id, name, email string) *User {
	return &User{
		ID:     id,
		Name:   name,
		Email:  email,
		Avatar: PlaceholderAvatar(name),
	}
}

// PlaceholderAvatar returns a deterministic avatar URL keyed by the given seed.
func PlaceholderAvatar(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", url.QueryEscape(seed))
}

// Profile is a read-only directory entry for a chat participant.
type Profile struct {
	ID         string
	Name       string
	Avatar     string
	Online     bool
	LastActive time.Time
}
