package service

import (
	"context"

	"github.com/rs/zerolog"

	"cookonomics/internal/auth"
	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/metrics"
	"cookonomics/internal/model"
	"cookonomics/internal/repository"
	"cookonomics/internal/validation"
)

// ItemService exposes item store operations.
type ItemService interface {
	Create(ctx context.Context, input model.NewItem, ownerID uint) (*model.Item, error)
	GetByID(ctx context.Context, id uint) (*model.Item, error)
	GetOwned(ctx context.Context, id, callerID uint) (*model.Item, error)
	ListForUser(ctx context.Context, ownerID uint, offset, limit int) ([]model.Item, error)
	Update(ctx context.Context, id uint, patch model.ItemPatch) (*model.Item, error)
	Delete(ctx context.Context, id uint) error
}

type itemService struct {
	repo      repository.ItemRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// NewItemService creates a new item service.
func NewItemService(repo repository.ItemRepository, validator *validation.Validator, log zerolog.Logger) ItemService {
	return &itemService{repo: repo, validator: validator, log: log}
}

// Create stores a new item owned by ownerID.
func (s *itemService) Create(ctx context.Context, input model.NewItem, ownerID uint) (*model.Item, error) {
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = model.ItemStatusActive
	}

	item := &model.Item{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Status:      status,
		UserID:      ownerID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	metrics.ItemMutationsTotal.WithLabelValues("create").Inc()
	s.log.Info().Uint("item_id", item.ID).Uint("user_id", ownerID).Msg("item created")
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	return s.repo.FindByID(ctx, id)
}

// GetOwned checks existence first (ErrItemNotFound) and ownership second
// (ErrForbidden).
func (s *itemService) GetOwned(ctx context.Context, id, callerID uint) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(item.UserID, callerID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) ListForUser(ctx context.Context, ownerID uint, offset, limit int) ([]model.Item, error) {
	return s.repo.ListByUser(ctx, ownerID, offset, limit)
}

func (s *itemService) Update(ctx context.Context, id uint, patch model.ItemPatch) (*model.Item, error) {
	if err := s.validator.Validate(&patch); err != nil {
		return nil, err
	}
	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	metrics.ItemMutationsTotal.WithLabelValues("update").Inc()
	s.log.Info().Uint("item_id", id).Msg("item updated")
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrItemNotFound
	}

	metrics.ItemMutationsTotal.WithLabelValues("delete").Inc()
	s.log.Info().Uint("item_id", id).Msg("item deleted")
	return nil
}
