package scheduling

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	appts []*Appointment
}

func NewMemoryRepo(appts []*Appointment) Store {
	cp := make([]*Appointment, len(appts))
	copy(cp, appts)
	return &memoryRepo{appts: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Appointment, len(r.appts))
	copy(out, r.appts)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.appts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Upsert(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.appts {
		if existing.ID == a.ID {
			r.appts[i] = a
			return nil
		}
	}
	r.appts = append(r.appts, a)
	return nil
}

// Update swaps in a new pointer so slices handed out by List never change
// underneath their readers.
func (r *memoryRepo) Update(_ context.Context, id string, fn func(a *Appointment) error) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.appts {
		if existing.ID != id {
			continue
		}
		next := *existing
		if err := fn(&next); err != nil {
			return nil, err
		}
		r.appts[i] = &next
		return &next, nil
	}
	return nil, ErrNotFound
}
