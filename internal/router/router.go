package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"intrak/docs"
	"intrak/internal/auth"
	"intrak/internal/config"
	apperrors "intrak/internal/errors"
	"intrak/internal/handler"
	"intrak/internal/model"
	"intrak/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	seedHandler *handler.SeedHandler,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validation.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/readyz", healthHandler.Readyz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireJWT := auth.JWTMiddleware(jwtService)

	// The frontend calls /auth/*; /api/auth/* is kept for proxied deployments.
	for _, prefix := range []string{"", "/api"} {
		g := e.Group(prefix)

		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)

		// Per-route middleware keeps unknown paths answering 404 rather than 401.
		g.GET("/auth/me", userHandler.Me, requireJWT)
		g.GET("/users", userHandler.ListUsers, requireJWT, auth.RequireRole(model.RoleCoordinator))
		g.GET("/users/:id", userHandler.GetUser, requireJWT)

		if cfg.IsDevelopment() && seedHandler != nil {
			g.POST("/seed/users", seedHandler.SeedUsers)
		}
	}
}

// RequestLogger logs one structured line per request through zerolog.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// HTTPErrorHandler renders every error as {error, code}. 5xx causes are logged
// server-side and never sent to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("code", httpErr.Code).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			msg = s
		}
		return &apperrors.HTTPError{
			StatusCode: he.Code,
			Message:    msg,
			Code:       codeForStatus(he.Code),
			Internal:   err,
		}
	}
	return apperrors.MapErrorToHTTP(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return fmt.Sprintf("HTTP_%d", status)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Translate(cv.validator.Struct(i))
}
