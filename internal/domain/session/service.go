package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carehub/portal/internal/domain/identity"
)

var (
	ErrNoMatch          = errors.New("no user matches these credentials")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Service manages the current-user slot of each session.
type Service struct {
	auth   Authenticator
	store  Store
	logger zerolog.Logger
}

func NewService(auth Authenticator, store Store, logger zerolog.Logger) *Service {
	return &Service{auth: auth, store: store, logger: logger}
}

func NewSessionID() string { return uuid.NewString() }

// Login authenticates and, on success, overwrites the session's slot. A
// failed login leaves the slot as it was.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*identity.User, error) {
	u, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			s.logger.Info().Str("session_id", sessionID).Msg("login rejected")
		}
		return nil, err
	}
	if err := s.store.Set(ctx, sessionID, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("session_id", sessionID).Str("user_id", u.ID).Str("role", string(u.Role)).Msg("login")
	return u, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("logout")
	return nil
}

func (s *Service) Current(ctx context.Context, sessionID string) (*identity.User, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}
	u, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

// Resolve reports the slot's identity for the request middleware. An
// empty slot is not an error.
func (s *Service) Resolve(ctx context.Context, sessionID string) (string, string, error) {
	u, err := s.Current(ctx, sessionID)
	if errors.Is(err, ErrNotAuthenticated) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return u.ID, string(u.Role), nil
}
