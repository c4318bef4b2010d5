package medication

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/caldate"
)

type Handler struct {
	svc   *Service
	users *identity.Service
	today caldate.TodayFunc
}

func NewHandler(svc *Service, users *identity.Service, today caldate.TodayFunc) *Handler {
	return &Handler{svc: svc, users: users, today: today}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/medications", auth.RequireRole(string(identity.RolePatient)))
	g.GET("", h.ListMedications)
	g.POST("/:id/reminders/:rid/taken", h.MarkTaken)
}

// viewer loads the signed-in user. A session naming a user that no longer
// exists is unauthenticated; any other lookup failure is a server error.
func (h *Handler) viewer(c echo.Context) (*identity.User, error) {
	u, err := h.users.GetUser(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return u, nil
}

// ListMedications returns the current/history split of the medications
// page, or a single list when ?view= names one.
func (h *Handler) ListMedications(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	meds, err := h.svc.ForPatient(c.Request().Context(), viewer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	today := h.today()

	switch view := c.QueryParam("view"); view {
	case "":
		return c.JSON(http.StatusOK, map[string]interface{}{
			"current": Views(Current(meds, today), today),
			"history": Views(History(meds, today), today),
		})
	case "current":
		return c.JSON(http.StatusOK, map[string]interface{}{"view": view, "data": Views(Current(meds, today), today)})
	case "history":
		return c.JSON(http.StatusOK, map[string]interface{}{"view": view, "data": Views(History(meds, today), today)})
	case "active":
		return c.JSON(http.StatusOK, map[string]interface{}{"view": view, "data": Views(Active(meds, today), today)})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "view must be current, history or active")
	}
}

func (h *Handler) MarkTaken(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	m, err := h.svc.MarkTaken(c.Request().Context(), viewer, c.Param("id"), c.Param("rid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotPermitted):
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		case errors.Is(err, ErrReminderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, NewView(m, h.today()))
}
