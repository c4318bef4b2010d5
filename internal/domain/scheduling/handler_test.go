package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/caldate"
)

func newTestHandler() (*Handler, *echo.Echo) {
	users := identity.NewService(identity.NewMemoryRepo([]*identity.User{
		testViewer("p1", identity.RolePatient),
		testViewer("d1", identity.RoleDoctor),
		testViewer("d2", identity.RoleDoctor),
		testViewer("a1", identity.RoleAdmin),
	}))
	h := NewHandler(newTestService(), users, caldate.Fixed(caldate.MustParse("2023-06-18")))
	return h, echo.New()
}

func viewerContext(e *echo.Echo, method, target, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req = req.WithContext(auth.WithViewer(req.Context(), userID, role))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_ListAppointments(t *testing.T) {
	h, e := newTestHandler()
	c, rec := viewerContext(e, http.MethodGet, "/?upcoming=true", "", "p1", "patient")

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data []struct {
			ID      string   `json:"id"`
			Actions []string `json:"actions"`
		} `json:"data"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Data[0].ID != "app1" {
		t.Fatalf("expected only app1, got %+v", body)
	}
	if len(body.Data[0].Actions) != 2 || body.Data[0].Actions[0] != "reschedule" {
		t.Errorf("expected reschedule/cancel actions, got %v", body.Data[0].Actions)
	}
}

func TestHandler_ListAppointments_BadDate(t *testing.T) {
	h, e := newTestHandler()
	c, _ := viewerContext(e, http.MethodGet, "/?date=June", "", "p1", "patient")

	err := h.ListAppointments(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_ListDates(t *testing.T) {
	h, e := newTestHandler()
	c, rec := viewerContext(e, http.MethodGet, "/", "", "d2", "doctor")

	if err := h.ListDates(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Dates []string `json:"dates"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Dates) != 2 || body.Dates[0] != "2023-06-22" {
		t.Errorf("unexpected dates %v", body.Dates)
	}
}

func TestHandler_Confirm(t *testing.T) {
	h, e := newTestHandler()
	c, rec := viewerContext(e, http.MethodPost, "/", "", "d1", "doctor")
	c.SetParamNames("id")
	c.SetParamValues("app1")

	if err := h.transition(ActionConfirm)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", a.Status)
	}
}

func TestHandler_TransitionErrors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
		id     string
		action Action
		code   int
	}{
		{"not permitted", "p1", "patient", "app1", ActionConfirm, http.StatusForbidden},
		{"invalid", "d2", "doctor", "app3", ActionCancel, http.StatusConflict},
		{"missing", "d1", "doctor", "app404", ActionConfirm, http.StatusNotFound},
		{"unauthenticated", "", "", "app1", ActionConfirm, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, e := newTestHandler()
			c, _ := viewerContext(e, http.MethodPost, "/", "", tt.userID, tt.role)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			err := h.transition(tt.action)(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != tt.code {
				t.Errorf("expected %d, got %v", tt.code, err)
			}
		})
	}
}

func TestHandler_Reschedule(t *testing.T) {
	h, e := newTestHandler()
	c, rec := viewerContext(e, http.MethodPost, "/", `{"date":"2023-06-30","time":"15:45"}`, "p1", "patient")
	c.SetParamNames("id")
	c.SetParamValues("app1")

	if err := h.Reschedule(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Date.String() != "2023-06-30" || a.Time.String() != "15:45" {
		t.Errorf("unexpected slot %s %s", a.Date, a.Time)
	}
}

// unreachableUsers is a user directory whose backing store is down.
type unreachableUsers struct{}

func (unreachableUsers) List(context.Context) ([]*identity.User, error) {
	return nil, errors.New("connection refused")
}

func (unreachableUsers) GetByID(context.Context, string) (*identity.User, error) {
	return nil, errors.New("connection refused")
}

func (unreachableUsers) ListByRole(context.Context, identity.Role, int, int) ([]*identity.User, int, error) {
	return nil, 0, errors.New("connection refused")
}

func TestHandler_ViewerLookup(t *testing.T) {
	e := echo.New()
	today := caldate.Fixed(caldate.MustParse("2023-06-18"))

	down := NewHandler(newTestService(), identity.NewService(unreachableUsers{}), today)
	c, _ := viewerContext(e, http.MethodGet, "/", "", "p1", "patient")
	he, ok := down.ListAppointments(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("store down: expected 500, got %v", he)
	}

	h, _ := newTestHandler()
	c, _ = viewerContext(e, http.MethodGet, "/", "", "ghost", "patient")
	he, ok = h.ListAppointments(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %v", he)
	}
}
