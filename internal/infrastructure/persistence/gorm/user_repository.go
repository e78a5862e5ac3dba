package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"gorm.io/gorm"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u after checking the username in the same transaction
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&UserModel{}).Where("username = ?", model.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return user.ErrUsernameTaken
		}
		return tx.Create(model).Error
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) || isDuplicate(err) {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.AssignID(model.ID)
	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

// Exists checks if a user exists by ID
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("user_id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("check user exists: %w", result.Error)
	}
	return count > 0, nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).Where(query, arg).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", result.Error)
	}

	return ModelToUser(&model), nil
}
