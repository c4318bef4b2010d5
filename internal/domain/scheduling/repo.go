package scheduling

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
}

// Store adds the write paths. Update applies fn to a copy of the stored
// appointment and saves the result atomically.
type Store interface {
	Repository
	Upsert(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, id string, fn func(a *Appointment) error) (*Appointment, error)
}
