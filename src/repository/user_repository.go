package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"neurocrypt/src/database"
	"neurocrypt/src/model"
)

// GormUserRepository handles persistence for User entities.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository instance using the main read/write database.
func NewUserRepository() *GormUserRepository {
	logger.WithField("component", "GormUserRepository").
		Info("Creating new GormUserRepository with MainDB")

	return &GormUserRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *GormUserRepository) WithDB(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. Duplicate usernames or emails surface as
// gorm.ErrDuplicatedKey thanks to TranslateError.
func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "GormUserRepository",
		"op":       "Create",
		"username": user.Username,
	}).Debug("Creating new user")

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "GormUserRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create user")
		return err
	}

	return nil
}

// FindByUsername fetches a user by username. Returns (nil, nil) when no user exists.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":     "GormUserRepository",
			"op":       "FindByUsername",
			"username": username,
		}).WithError(err).Error("Failed to fetch user by username")
		return nil, err
	}

	return &user, nil
}

// FindByID fetches a user by primary ID. Returns (nil, nil) when no user exists.
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo": "GormUserRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch user by ID")
		return nil, err
	}

	return &user, nil
}
