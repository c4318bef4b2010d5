package identity

import (
	"context"
	"sync"

	"github.com/carehub/portal/pkg/pagination"
)

type memoryRepo struct {
	mu    sync.RWMutex
	users []*User
}

// NewMemoryRepo serves a fixed user directory. The slice order is kept.
func NewMemoryRepo(users []*User) Store {
	cp := make([]*User, len(users))
	copy(cp, users)
	return &memoryRepo{users: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) ListByRole(_ context.Context, role Role, limit, offset int) ([]*User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			matched = append(matched, u)
		}
	}
	return pagination.Page(matched, limit, offset), len(matched), nil
}

func (r *memoryRepo) Upsert(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.users {
		if existing.ID == u.ID {
			r.users[i] = u
			return nil
		}
	}
	r.users = append(r.users, u)
	return nil
}
