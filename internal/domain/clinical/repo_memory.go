package clinical

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu      sync.RWMutex
	records []*MedicalRecord
}

func NewMemoryRepo(records []*MedicalRecord) Store {
	cp := make([]*MedicalRecord, len(records))
	copy(cp, records)
	return &memoryRepo{records: cp}
}

func (r *memoryRepo) List(_ context.Context) ([]*MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*MedicalRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Upsert(_ context.Context, rec *MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == rec.ID {
			r.records[i] = rec
			return nil
		}
	}
	r.records = append(r.records, rec)
	return nil
}
