package handler

import (
	"context"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input model.NewUser) (*model.User, error)
	loginFn    func(ctx context.Context, email, password string) (*model.Token, error)
	currentFn  func(ctx context.Context, token string) (*model.User, error)
	refreshFn  func(ctx context.Context, user *model.User) (*model.Token, error)
}

func (s *stubAuthService) Register(ctx context.Context, input model.NewUser) (*model.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*model.Token, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	return s.currentFn(ctx, token)
}

func (s *stubAuthService) Refresh(ctx context.Context, user *model.User) (*model.Token, error) {
	return s.refreshFn(ctx, user)
}

type stubItemService struct {
	items   map[uint]*model.Item
	created []model.NewItem
	updated []model.ItemPatch
	deleted []uint
}

func newStubItemService(items ...*model.Item) *stubItemService {
	s := &stubItemService{items: make(map[uint]*model.Item)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *stubItemService) Create(_ context.Context, input model.NewItem, ownerID uint) (*model.Item, error) {
	s.created = append(s.created, input)
	item := &model.Item{ID: uint(len(s.items) + 1), Name: input.Name, Price: input.Price, Status: model.ItemStatusActive, UserID: ownerID}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubItemService) GetByID(_ context.Context, id uint) (*model.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	return item, nil
}

func (s *stubItemService) GetOwned(ctx context.Context, id, callerID uint) (*model.Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != callerID {
		return nil, apperrors.ErrForbidden
	}
	return item, nil
}

func (s *stubItemService) ListForUser(_ context.Context, ownerID uint, offset, limit int) ([]model.Item, error) {
	out := make([]model.Item, 0)
	for id := uint(1); id <= uint(len(s.items)); id++ {
		if it, ok := s.items[id]; ok && it.UserID == ownerID {
			out = append(out, *it)
		}
	}
	if offset >= len(out) {
		return []model.Item{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubItemService) Update(_ context.Context, id uint, patch model.ItemPatch) (*model.Item, error) {
	s.updated = append(s.updated, patch)
	item := s.items[id]
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	return item, nil
}

func (s *stubItemService) Delete(_ context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	delete(s.items, id)
	return nil
}
