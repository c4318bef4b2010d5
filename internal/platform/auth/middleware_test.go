package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type stubResolver struct {
	slots map[string][2]string
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, sessionID string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	v := s.slots[sessionID]
	return v[0], v[1], nil
}

func runSession(t *testing.T, header string, resolver SessionResolver) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen echo.Context
	h := SessionMiddleware(NewTokenIssuer(testKey, time.Hour), resolver)(func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return seen, err
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	tokens := NewTokenIssuer(testKey, time.Hour)
	signed, exp, err := tokens.Issue("sess-1", "p1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expected expiry in the future")
	}
	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.Subject != "p1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_RejectsOtherKey(t *testing.T) {
	signed, _, _ := NewTokenIssuer([]byte("another-key-another-key-another!"), time.Hour).Issue("sess-1", "p1")
	if _, err := NewTokenIssuer(testKey, time.Hour).Parse(signed); err == nil {
		t.Error("expected error for token signed with a different key")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	tokens := NewTokenIssuer(testKey, time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, _ := tokens.Issue("sess-1", "p1")
	tokens.now = time.Now
	if _, err := tokens.Parse(signed); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestSessionMiddleware_NoHeader(t *testing.T) {
	c, err := runSession(t, "", &stubResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid := UserIDFromContext(c.Request().Context()); uid != "" {
		t.Errorf("expected no viewer, got %q", uid)
	}
}

func assertAnonymous(t *testing.T, c echo.Context, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}
	if c == nil {
		t.Fatal("next handler was not called")
	}
	ctx := c.Request().Context()
	if uid := UserIDFromContext(ctx); uid != "" {
		t.Errorf("expected no viewer, got %q", uid)
	}
	if sid := SessionIDFromContext(ctx); sid != "" {
		t.Errorf("expected no session, got %q", sid)
	}
}

func TestSessionMiddleware_InvalidFormat(t *testing.T) {
	c, err := runSession(t, "Token abc", &stubResolver{})
	assertAnonymous(t, c, err)
}

func TestSessionMiddleware_ForgedToken(t *testing.T) {
	c, err := runSession(t, "Bearer not.a.token", &stubResolver{})
	assertAnonymous(t, c, err)
}

func TestSessionMiddleware_OtherKeyToken(t *testing.T) {
	signed, _, _ := NewTokenIssuer([]byte("another-key-another-key-another!"), time.Hour).Issue("sess-1", "d1")
	resolver := &stubResolver{slots: map[string][2]string{"sess-1": {"d1", "doctor"}}}
	c, err := runSession(t, "Bearer "+signed, resolver)
	assertAnonymous(t, c, err)
}

func TestSessionMiddleware_ExpiredToken(t *testing.T) {
	tokens := NewTokenIssuer(testKey, time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, _ := tokens.Issue("sess-1", "d1")
	resolver := &stubResolver{slots: map[string][2]string{"sess-1": {"d1", "doctor"}}}

	c, err := runSession(t, "Bearer "+signed, resolver)
	assertAnonymous(t, c, err)
}

func TestSessionMiddleware_StaleTokenBlockedByRequireAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	c := e.NewContext(req, httptest.NewRecorder())

	h := SessionMiddleware(NewTokenIssuer(testKey, time.Hour), &stubResolver{})(
		RequireAuth()(func(c echo.Context) error { return c.NoContent(http.StatusOK) }),
	)
	he, ok := h(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 from RequireAuth, got %v", he)
	}
}

func TestSessionMiddleware_SignedIn(t *testing.T) {
	signed, _, _ := NewTokenIssuer(testKey, time.Hour).Issue("sess-1", "d1")
	resolver := &stubResolver{slots: map[string][2]string{"sess-1": {"d1", "doctor"}}}

	c, err := runSession(t, "Bearer "+signed, resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := c.Request().Context()
	if UserIDFromContext(ctx) != "d1" {
		t.Errorf("expected d1, got %q", UserIDFromContext(ctx))
	}
	if roles := RolesFromContext(ctx); len(roles) != 1 || roles[0] != "doctor" {
		t.Errorf("expected [doctor], got %v", roles)
	}
	if SessionIDFromContext(ctx) != "sess-1" {
		t.Errorf("expected sess-1, got %q", SessionIDFromContext(ctx))
	}
}

func TestSessionMiddleware_ClearedSlot(t *testing.T) {
	signed, _, _ := NewTokenIssuer(testKey, time.Hour).Issue("sess-1", "d1")

	c, err := runSession(t, "Bearer "+signed, &stubResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := c.Request().Context()
	if UserIDFromContext(ctx) != "" {
		t.Error("logged-out session must not carry a viewer")
	}
	if SessionIDFromContext(ctx) != "sess-1" {
		t.Error("session id should still be attached")
	}
}

func TestSessionMiddleware_StoreDown(t *testing.T) {
	signed, _, _ := NewTokenIssuer(testKey, time.Hour).Issue("sess-1", "d1")
	_, err := runSession(t, "Bearer "+signed, &stubResolver{err: errors.New("connection refused")})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err)
	}
}
