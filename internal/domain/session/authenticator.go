package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carehub/portal/internal/domain/identity"
)

// Authenticator turns credentials into an identity. A miss is ErrNoMatch.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*identity.User, error)
}

// DirectoryAuthenticator checks credentials against the user directory.
// The first user whose email matches case-insensitively is the only
// candidate. Users with a bcrypt hash must present the matching password;
// users without one are accepted on a non-empty password only when
// AllowPresenceOnly is set.
type DirectoryAuthenticator struct {
	Users             *identity.Service
	LoginDelay        time.Duration
	AllowPresenceOnly bool
	Logger            zerolog.Logger
}

func (a *DirectoryAuthenticator) Authenticate(ctx context.Context, email, password string) (*identity.User, error) {
	if err := wait(ctx, a.LoginDelay); err != nil {
		return nil, err
	}

	u, err := a.Users.FindByEmail(ctx, email)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, err
	}

	switch {
	case u.HasPassword():
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrNoMatch
		}
	case a.AllowPresenceOnly && strings.TrimSpace(password) != "":
		a.Logger.Warn().Str("user_id", u.ID).Msg("login accepted without a stored password hash")
	default:
		return nil, ErrNoMatch
	}
	return u, nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HashPassword is the bcrypt hash stored in the directory.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
