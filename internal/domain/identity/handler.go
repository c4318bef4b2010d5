package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/caldate"
	"github.com/carehub/portal/pkg/pagination"
)

type Handler struct {
	svc   *Service
	today caldate.TodayFunc
}

func NewHandler(svc *Service, today caldate.TodayFunc) *Handler {
	return &Handler{svc: svc, today: today}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/users/me", h.GetMe, auth.RequireAuth())

	staff := api.Group("", auth.RequireRole(string(RoleAdmin), string(RoleDoctor)))
	staff.GET("/users/:id", h.GetUser)

	admin := api.Group("", auth.RequireRole(string(RoleAdmin)))
	admin.GET("/users", h.ListUsers)
}

// viewer loads the signed-in user; only a missing user reads as unauthenticated.
func (h *Handler) viewer(c echo.Context) (*User, error) {
	u, err := h.svc.GetUser(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return u, nil
}

func (h *Handler) GetMe(c echo.Context) error {
	u, err := h.viewer(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Profile(u, h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// GetUser shows any user to admins; doctors may only open their own patients.
func (h *Handler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	target, err := h.svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	if viewer.Role == RoleDoctor && !viewer.OwnsPatient(target.ID) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	view, err := h.svc.Profile(target, h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListUsers(c.Request().Context(), Role(c.QueryParam("role")), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
