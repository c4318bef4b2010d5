package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(NewMemoryRepo(testItems())), echo.New()
}

func TestHandler_ListItems(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?stock=low&sort=critical", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListItems(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Level  string `json:"level"`
		} `json:"data"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 3 || body.Data[0].ID != "inv2" {
		t.Fatalf("unexpected result %+v", body)
	}
	if body.Data[0].Status != "Low Stock" || body.Data[0].Level != "critical" {
		t.Errorf("unexpected stock state %+v", body.Data[0])
	}
}

func TestHandler_ListItems_BadParams(t *testing.T) {
	for _, target := range []string{"/?stock=empty", "/?sort=name"} {
		h, e := newTestHandler()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := h.ListItems(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", target, err)
		}
	}
}

func TestHandler_ListCategories(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := h.ListCategories(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Categories []string `json:"categories"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Categories) != 4 || body.Categories[0] != "all" {
		t.Errorf("unexpected categories %v", body.Categories)
	}
}

func TestHandler_GetItem_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("inv404")

	err := h.GetItem(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
