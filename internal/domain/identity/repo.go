package identity

import (
	"context"
)

// Repository is the read side of the user directory. List returns users in
// directory order, which login relies on for first-match semantics.
type Repository interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListByRole(ctx context.Context, role Role, limit, offset int) ([]*User, int, error)
}

// Store is a Repository that can also be seeded.
type Store interface {
	Repository
	Upsert(ctx context.Context, u *User) error
}
