package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"salescrm/internal/service"
)

// DashboardHandler serves the landing view.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get godoc
// @Summary Dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboardService.Build(c.Request().Context(), s.Username(), s.Role())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
