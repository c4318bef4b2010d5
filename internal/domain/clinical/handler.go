package clinical

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/pkg/pagination"
)

type Handler struct {
	svc   *Service
	users *identity.Service
}

func NewHandler(svc *Service, users *identity.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/medical-records", auth.RequireAuth())
	g.GET("", h.ListRecords)
	g.GET("/:id", h.GetRecord)
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

func (h *Handler) ListRecords(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	records, err := h.svc.ForViewer(c.Request().Context(), viewer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pid := c.QueryParam("patient_id"); pid != "" {
		records = ForPatients(records, pid)
	}
	pg := pagination.FromContext(c)
	return c.JSON(http.StatusOK, pagination.NewResponse(
		pagination.Page(records, pg.Limit, pg.Offset), len(records), pg.Limit, pg.Offset))
}

func (h *Handler) GetRecord(c echo.Context) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}
