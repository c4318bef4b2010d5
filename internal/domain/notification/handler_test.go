package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carehub/portal/internal/platform/auth"
)

func TestHandler_ListAndMarkAll(t *testing.T) {
	h := NewHandler(NewService(NewMemoryRepo(testNotifications()), zerolog.Nop()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithViewer(req.Context(), "p1", "patient"))
	rec := httptest.NewRecorder()
	if err := h.ListNotifications(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var g Group
	json.Unmarshal(rec.Body.Bytes(), &g)
	if g.Unread != 2 {
		t.Errorf("expected 2 unread, got %d", g.Unread)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(auth.WithViewer(req.Context(), "p1", "patient"))
	rec = httptest.NewRecorder()
	if err := h.MarkAllRead(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	json.Unmarshal(rec.Body.Bytes(), &g)
	if g.Unread != 0 {
		t.Errorf("expected 0 unread, got %d", g.Unread)
	}
}

func TestHandler_MarkRead_NotFound(t *testing.T) {
	h := NewHandler(NewService(NewMemoryRepo(testNotifications()), zerolog.Nop()))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(auth.WithViewer(req.Context(), "p1", "patient"))
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not404")

	err := h.MarkRead(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
