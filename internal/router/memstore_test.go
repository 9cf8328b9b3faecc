package router

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "cookonomics/internal/errors"
	"cookonomics/internal/model"
)

// memStore is an in-memory stand-in for the MySQL tables, including the
// unique email index and the cascading delete of a user's items.
type memStore struct {
	mu         sync.Mutex
	users      map[uint]model.User
	items      map[uint]model.Item
	nextUserID uint
	nextItemID uint
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint]model.User), items: make(map[uint]model.Item)}
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicateEmail
		}
	}
	r.s.nextUserID++
	now := time.Now()
	user.ID, user.CreatedAt, user.UpdatedAt = r.s.nextUserID, now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r memUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUserRepo) Update(_ context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, apperrors.ErrEmailTaken
			}
		}
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = patch.FullName
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return &u, nil
}

func (r memUserRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	delete(r.s.users, id)
	for itemID, it := range r.s.items {
		if it.UserID == id {
			delete(r.s.items, itemID)
		}
	}
	return true, nil
}

func (r memUserRepo) List(_ context.Context, offset, limit int) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, offset, limit), nil
}

type memItemRepo struct{ s *memStore }

func (r memItemRepo) Create(_ context.Context, item *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextItemID++
	now := time.Now()
	item.ID, item.CreatedAt, item.UpdatedAt = r.s.nextItemID, now, now
	r.s.items[item.ID] = *item
	return nil
}

func (r memItemRepo) FindByID(_ context.Context, id uint) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	return &it, nil
}

func (r memItemRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Item, 0)
	for _, it := range r.s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, offset, limit), nil
}

func (r memItemRepo) Update(_ context.Context, id uint, patch model.ItemPatch) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = patch.Description
	}
	if patch.Price != nil {
		it.Price = patch.Price
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	it.UpdatedAt = time.Now()
	r.s.items[id] = it
	return &it, nil
}

func (r memItemRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return false, nil
	}
	delete(r.s.items, id)
	return true, nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
