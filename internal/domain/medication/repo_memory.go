package medication

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu   sync.RWMutex
	meds []*Medication
}

func NewMemoryRepo(meds []*Medication) Store {
	cp := make([]*Medication, len(meds))
	copy(cp, meds)
	return &memoryRepo{meds: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Medication, len(r.meds))
	copy(out, r.meds)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.meds {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Upsert(_ context.Context, m *Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.meds {
		if existing.ID == m.ID {
			r.meds[i] = m
			return nil
		}
	}
	r.meds = append(r.meds, m)
	return nil
}

func (r *memoryRepo) Update(_ context.Context, id string, fn func(m *Medication) error) (*Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.meds {
		if existing.ID != id {
			continue
		}
		next := existing.clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		r.meds[i] = next
		return next, nil
	}
	return nil, ErrNotFound
}
