package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"salescrm/internal/errors"
	"salescrm/internal/service"
	"salescrm/internal/sqlclass"
)

// ConsoleHandler exposes the admin query console and table browser.
type ConsoleHandler struct {
	consoleService service.ConsoleService
	logger         *slog.Logger
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(consoleService service.ConsoleService, logger *slog.Logger) *ConsoleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleHandler{consoleService: consoleService, logger: logger}
}

// QueryRequest is a console statement. Confirm must be true for statements
// that may modify or delete data.
type QueryRequest struct {
	Statement string `json:"statement" validate:"required"`
	Confirm   bool   `json:"confirm"`
}

// ConfirmationRequiredResponse explains why a statement was held back.
type ConfirmationRequiredResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Reasons []string `json:"reasons"`
}

// TablesResponse lists the store's tables.
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// Tables godoc
// @Summary List tables
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TablesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/tables [get]
func (h *ConsoleHandler) Tables(c echo.Context) error {
	tables, err := h.consoleService.ListTables(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	if tables == nil {
		tables = []string{}
	}
	return c.JSON(http.StatusOK, TablesResponse{Tables: tables})
}

// Describe godoc
// @Summary Describe a table
// @Description Columns, the first five rows and the total row count.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name path string true "Table name"
// @Success 200 {object} model.TableDescription
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tables/{name} [get]
func (h *ConsoleHandler) Describe(c echo.Context) error {
	desc, err := h.consoleService.DescribeTable(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, desc)
}

// Rows godoc
// @Summary View all rows of a table
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name path string true "Table name"
// @Success 200 {object} model.QueryResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/tables/{name}/rows [get]
func (h *ConsoleHandler) Rows(c echo.Context) error {
	result, err := h.consoleService.BrowseTable(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Query godoc
// @Summary Execute a SQL statement
// @Description Runs caller-authored SQL. Statements that may modify or delete data, or whose kind is not recognised, are refused with 428 unless confirm is true. Statement failures are reported in the result with success=false.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QueryRequest true "Statement"
// @Success 200 {object} model.QueryResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 428 {object} ConfirmationRequiredResponse
// @Router /admin/query [post]
func (h *ConsoleHandler) Query(c echo.Context) error {
	var req QueryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inspection := sqlclass.Inspect(req.Statement)
	if inspection.RequiresConfirmation && !req.Confirm {
		return c.JSON(http.StatusPreconditionRequired, ConfirmationRequiredResponse{
			Error:   errors.ErrConfirmationRequired.Error(),
			Code:    "CONFIRMATION_REQUIRED",
			Reasons: inspection.Reasons,
		})
	}

	username := ""
	if s, err := currentSession(c); err == nil {
		username = s.Username()
	}
	h.logger.Info("console statement submitted",
		slog.String("username", username),
		slog.String("kind", inspection.Kind().String()),
		slog.Bool("confirmed", req.Confirm),
	)

	result := h.consoleService.Execute(c.Request().Context(), req.Statement)
	return c.JSON(http.StatusOK, result)
}
