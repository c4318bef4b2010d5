package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// Service reads and marks a user's feed.
type Service struct {
	notes  Store
	logger zerolog.Logger
}

func NewService(notes Store, logger zerolog.Logger) *Service {
	return &Service{notes: notes, logger: logger}
}

// Feed returns the user's notifications with the unread count.
func (s *Service) Feed(ctx context.Context, userID string) (Group, error) {
	all, err := s.notes.List(ctx)
	if err != nil {
		return Group{}, err
	}
	return ForUser(all, userID), nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (Group, error) {
	if _, err := s.notes.MarkRead(ctx, userID, id); err != nil {
		return Group{}, err
	}
	return s.Feed(ctx, userID)
}

// MarkAllRead clears the unread badge and returns the updated feed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (Group, error) {
	n, err := s.notes.MarkAllRead(ctx, userID)
	if err != nil {
		return Group{}, err
	}
	s.logger.Debug().Str("user_id", userID).Int("count", n).Msg("notifications marked read")
	return s.Feed(ctx, userID)
}
