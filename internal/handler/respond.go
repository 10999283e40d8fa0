package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"salescrm/internal/errors"
	"salescrm/internal/session"
)

// ContextKeySession is the echo context key holding the request's *session.Session.
const ContextKeySession = "session"

// httpError maps a service error to an echo error carrying an ErrorResponse.
// Causes of 5xx responses are logged, never returned.
func httpError(c echo.Context, err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.String("error", err.Error()),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate binds the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}
	return nil
}

// currentSession returns the session restored by the auth middleware.
func currentSession(c echo.Context) (*session.Session, error) {
	if s, ok := c.Get(ContextKeySession).(*session.Session); ok && s != nil {
		return s, nil
	}
	if s, ok := session.FromContext(c.Request().Context()); ok {
		return s, nil
	}
	return nil, httpError(c, errors.ErrNotLoggedIn)
}
