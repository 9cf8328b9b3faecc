package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

// ItemRepository defines persistence operations for items. It does not
// enforce ownership.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uint) (*model.Item, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Item, error)
	Update(ctx context.Context, id uint, patch model.ItemPatch) (*model.Item, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create creates a new item.
func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// FindByID finds an item by ID.
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item %d: %w", id, err)
	}
	return &item, nil
}

// ListByUser lists the items owned by userID in id order.
func (r *itemRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Item, error) {
	items := make([]model.Item, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items for user %d: %w", userID, err)
	}
	return items, nil
}

// Update applies patch within a transaction and returns the stored row.
// updated_at is bumped even when patch is empty.
func (r *itemRepository) Update(ctx context.Context, id uint, patch model.ItemPatch) (*model.Item, error) {
	var updated model.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, id).Error; err != nil {
			return err
		}
		cols := patch.Columns()
		cols["updated_at"] = time.Now()
		if err := tx.Model(&current).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	return &updated, nil
}

// Delete removes an item and reports whether a row existed.
func (r *itemRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete item %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
