package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user and fills in its id and timestamps. The unique index on
// email is authoritative: a violation is reported as ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail matches email exactly, including case.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Update applies patch in a single transaction. The row is locked, an email
// change is checked against all other users, and updated_at is always bumped.
func (r *userRepository) Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	var updated model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, id).Error; err != nil {
			return err
		}

		if patch.Email != nil && *patch.Email != current.Email {
			var taken int64
			if err := tx.Model(&model.User{}).
				Where("email = ? AND id <> ?", *patch.Email, id).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return apperrors.ErrEmailTaken
			}
		}

		cols := patch.Columns()
		cols["updated_at"] = time.Now()
		if err := tx.Model(&current).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	switch {
	case err == nil:
		return &updated, nil
	case isNotFound(err):
		return nil, apperrors.ErrUserNotFound
	case errors.Is(err, apperrors.ErrEmailTaken), isDuplicateKey(err):
		return nil, apperrors.ErrEmailTaken
	default:
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
}

// Delete removes the user and, through the foreign key, the user's items.
func (r *userRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// List returns users in id order.
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
