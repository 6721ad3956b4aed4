package repository

import (
	"encoding/json"
	"errors"
	"time"

	"pingme/internal/domain"
)

// SessionRecordModel is a single keyed row holding a JSON blob. The session
// store keeps exactly one record: the signed-in user.
type SessionRecordModel struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SessionRecordModel) TableName() string { return "session_records" }

// storedUser is the JSON wire form of a persisted identity.
type storedUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func UserDomainToJSON(user *domain.User) (string, error) {
	if user == nil {
		return "", nil
	}
	data, err := json.Marshal(storedUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UserJSONToDomain(value string) (*domain.User, error) {
	var stored storedUser
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, err
	}
	if stored.ID == "" {
		return nil, errors.New("stored user has no id")
	}
	return &domain.User{
		ID:     stored.ID,
		Name:   stored.Name,
		Email:  stored.Email,
		Avatar: stored.Avatar,
	}, nil
}
