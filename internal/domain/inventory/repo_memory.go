package inventory

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items []*Item
}

func NewMemoryRepo(items []*Item) Store {
	cp := make([]*Item, len(items))
	copy(cp, items)
	return &memoryRepo{items: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Upsert(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == it.ID {
			r.items[i] = it
			return nil
		}
	}
	r.items = append(r.items, it)
	return nil
}
