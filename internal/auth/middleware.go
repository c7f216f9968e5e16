package auth

import (
	"errors"
	"slices"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "intrak/internal/errors"
	"intrak/internal/model"
)

// ContextKey is where verified claims are stored on the echo context.
const ContextKey = "user"

// JWTMiddleware protects a route group with bearer tokens verified by s.
func JWTMiddleware(s *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return s.Verify(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				return apperrors.MapErrorToHTTP(apperrors.ErrTokenExpired)
			case errors.Is(err, apperrors.ErrTokenInvalid):
				return apperrors.MapErrorToHTTP(err)
			default:
				return apperrors.MapErrorToHTTP(apperrors.ErrTokenMissing)
			}
		},
	})
}

// ClaimsFromContext returns the claims stored by JWTMiddleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole rejects callers whose token role is not in roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return apperrors.MapErrorToHTTP(apperrors.ErrTokenMissing)
			}
			if !slices.Contains(roles, claims.Role) {
				return apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}
