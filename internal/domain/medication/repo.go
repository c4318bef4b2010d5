package medication

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Medication, error)
	GetByID(ctx context.Context, id string) (*Medication, error)
}

// Store adds the write paths. Update applies fn to a copy of the stored
// medication, reminders included, and saves the result atomically.
type Store interface {
	Repository
	Upsert(ctx context.Context, m *Medication) error
	Update(ctx context.Context, id string, fn func(m *Medication) error) (*Medication, error)
}
