package notification

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	notes []*Notification
}

func NewMemoryRepo(notes []*Notification) Store {
	cp := make([]*Notification, len(notes))
	copy(cp, notes)
	return &memoryRepo{notes: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Notification, len(r.notes))
	copy(out, r.notes)
	return out, nil
}

func (r *memoryRepo) Upsert(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.notes {
		if existing.ID == n.ID {
			r.notes[i] = n
			return nil
		}
	}
	r.notes = append(r.notes, n)
	return nil
}

func (r *memoryRepo) MarkRead(_ context.Context, userID, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notes {
		if n.ID != id || n.UserID != userID {
			continue
		}
		if n.IsRead {
			return 0, nil
		}
		r.notes[i] = markRead(n)
		return 1, nil
	}
	return 0, ErrNotFound
}

func (r *memoryRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for i, n := range r.notes {
		if n.UserID == userID && !n.IsRead {
			r.notes[i] = markRead(n)
			changed++
		}
	}
	return changed, nil
}

// markRead copies so earlier List results keep their state.
func markRead(n *Notification) *Notification {
	cp := *n
	cp.IsRead = true
	return &cp
}
