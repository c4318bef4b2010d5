package inventory

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
}

type Store interface {
	Repository
	Upsert(ctx context.Context, it *Item) error
}
