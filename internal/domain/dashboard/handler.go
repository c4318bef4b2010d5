package dashboard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/caldate"
)

type Handler struct {
	composer *Composer
	users    *identity.Service
	today    caldate.TodayFunc
}

func NewHandler(composer *Composer, users *identity.Service, today caldate.TodayFunc) *Handler {
	return &Handler{composer: composer, users: users, today: today}
}

// RegisterRoutes leaves /dashboard open: without a viewer it answers with
// the redirect payload instead of 401.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/navigation", h.GetNavigation, auth.RequireAuth())
}

func (h *Handler) viewer(c echo.Context) (*identity.User, error) {
	ctx := c.Request().Context()
	uid := auth.UserIDFromContext(ctx)
	if uid == "" {
		return nil, nil
	}
	u, err := h.users.GetUser(ctx, uid)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (h *Handler) GetDashboard(c echo.Context) error {
	today := h.today()
	if v := c.QueryParam("today"); v != "" {
		d, err := caldate.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "today must be YYYY-MM-DD")
		}
		today = d
	}
	viewer, err := h.viewer(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	payload, err := h.composer.Compose(c.Request().Context(), viewer, today)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, payload)
}

func (h *Handler) GetNavigation(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if viewer == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"links": NavLinks(viewer.Role)})
}
