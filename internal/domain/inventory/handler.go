package inventory

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/pagination"
)

type Handler struct {
	items Repository
}

func NewHandler(items Repository) *Handler {
	return &Handler{items: items}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/inventory", auth.RequireRole("admin"))
	g.GET("", h.ListItems)
	g.GET("/categories", h.ListCategories)
	g.GET("/:id", h.GetItem)
}

// Row is an inventory table row with its derived stock state.
type Row struct {
	*Item
	Status      string  `json:"status"`
	Level       Level   `json:"level"`
	FillPercent float64 `json:"fill_percent"`
}

func NewRow(it *Item) Row {
	return Row{Item: it, Status: it.StatusLabel(), Level: it.Level(), FillPercent: it.FillPercent()}
}

func (h *Handler) ListItems(c echo.Context) error {
	q := Query{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Stock:    StockFilter(strings.ToLower(c.QueryParam("stock"))),
	}
	if q.Stock == "" {
		q.Stock = StockAll
	}
	if !q.Stock.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "stock must be all, low or normal")
	}

	items, err := h.items.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	items = Filter(items, q)
	switch c.QueryParam("sort") {
	case "":
	case "critical":
		items = SortByRatio(items)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported sort")
	}

	pg := pagination.FromContext(c)
	page := pagination.Page(items, pg.Limit, pg.Offset)
	rows := make([]Row, len(page))
	for i, it := range page {
		rows[i] = NewRow(it)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, len(items), pg.Limit, pg.Offset))
}

// ListCategories returns the category filter options, "all" first.
func (h *Handler) ListCategories(c echo.Context) error {
	items, err := h.items.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": append([]string{"all"}, Categories(items)...),
	})
}

func (h *Handler) GetItem(c echo.Context) error {
	it, err := h.items.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "inventory item not found")
	}
	return c.JSON(http.StatusOK, NewRow(it))
}
