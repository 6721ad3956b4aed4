package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pingme/internal/domain"
	"pingme/internal/logger"
)

const sessionUserKey = "session.user"

type gormSessionRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db, logger: logger.Module("repository")}
}

func (r *gormSessionRepository) Save(ctx context.Context, user *domain.User) error {
	value, err := UserDomainToJSON(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	record := &SessionRecordModel{Key: sessionUserKey, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (r *gormSessionRepository) Load(ctx context.Context) (*domain.User, error) {
	var record SessionRecordModel
	if err := r.db.WithContext(ctx).First(&record, "key = ?", sessionUserKey).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	user, err := UserJSONToDomain(record.Value)
	if err != nil {
		// Corrupted record: discard it and proceed as logged-out.
		r.logger.Warn().Err(err).Msg("discarding unreadable session record")
		if delErr := r.Clear(ctx); delErr != nil {
			return nil, delErr
		}
		return nil, nil
	}
	return user, nil
}

func (r *gormSessionRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("key = ?", sessionUserKey).
		Delete(&SessionRecordModel{}).Error
}
