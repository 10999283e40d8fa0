package router

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"salescrm/internal/auth"
	apperrors "salescrm/internal/errors"
	"salescrm/internal/handler"
	"salescrm/internal/session"
)

const contextKeyClaims = "user"

var errTokenRevoked = errors.New("token has been revoked")

// JWTAuth validates the bearer access token, rejects blacklisted tokens and
// restores the caller's session into the echo and request contexts.
func JWTAuth(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: contextKeyClaims,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(tokenString)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(contextKeyClaims).(*auth.Claims)
			if !ok {
				return
			}
			s, err := session.Restore(claims.Username, claims.Role)
			if err != nil {
				return
			}
			c.Set(handler.ContextKeySession, s)
			c.SetRequest(c.Request().WithContext(session.WithSession(c.Request().Context(), s)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrNotLoggedIn.Error(),
				Code:  "LOGIN_REQUIRED",
			})
		},
	})
}

// RequirePage rejects requests whose session may not open page.
func RequirePage(page session.Page) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := c.Get(handler.ContextKeySession).(*session.Session)
			if !ok {
				s = session.New()
			}
			if err := s.Authorize(page); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
