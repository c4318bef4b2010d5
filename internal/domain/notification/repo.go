package notification

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*Notification, error)
}

// Store adds read marking. Both mark methods report how many
// notifications changed state.
type Store interface {
	Repository
	Upsert(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, userID, id string) (int, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}
