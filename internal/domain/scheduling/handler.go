package scheduling

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/caldate"
	"github.com/carehub/portal/pkg/pagination"
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
	g := api.Group("/appointments", auth.RequireAuth())
	g.GET("", h.ListAppointments)
	g.GET("/dates", h.ListDates)
	g.GET("/:id", h.GetAppointment)
	g.POST("/:id/confirm", h.transition(ActionConfirm))
	g.POST("/:id/complete", h.transition(ActionComplete))
	g.POST("/:id/cancel", h.transition(ActionCancel))
	g.POST("/:id/reschedule", h.Reschedule)
}

// CalendarEntry is an appointment with the actions its viewer may take.
type CalendarEntry struct {
	*Appointment
	Actions []Action `json:"actions"`
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

func (h *Handler) ListAppointments(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.ForViewer(c.Request().Context(), viewer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if v := c.QueryParam("date"); v != "" {
		d, err := caldate.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		appts = OnDate(appts, d)
	}
	if c.QueryParam("upcoming") == "true" {
		appts = Upcoming(appts)
	}
	if v := c.QueryParam("status"); v != "" {
		if !Status(v).Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		appts = WithStatus(appts, Status(v))
	}

	pg := pagination.FromContext(c)
	page := pagination.Page(appts, pg.Limit, pg.Offset)
	entries := make([]CalendarEntry, len(page))
	for i, a := range page {
		entries[i] = CalendarEntry{Appointment: a, Actions: ActionsFor(a, viewer.Role, viewer.ID)}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, len(appts), pg.Limit, pg.Offset))
}

func (h *Handler) ListDates(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	appts, err := h.svc.ForViewer(c.Request().Context(), viewer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"dates": DatesWithAppointments(appts)})
}

func (h *Handler) GetAppointment(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, CalendarEntry{Appointment: a, Actions: ActionsFor(a, viewer.Role, viewer.ID)})
}

func (h *Handler) transition(action Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		viewer, err := h.viewer(c)
		if err != nil {
			return err
		}
		a, err := h.svc.Apply(c.Request().Context(), viewer, c.Param("id"), action)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, a)
	}
}

type rescheduleRequest struct {
	Date caldate.Date      `json:"date"`
	Time caldate.TimeOfDay `json:"time"`
}

func (h *Handler) Reschedule(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Reschedule(c.Request().Context(), viewer, c.Param("id"), req.Date, req.Time, h.today())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrNotPermitted):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrPastDate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
