package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const readinessTimeout = 2 * time.Second

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse reports dependency status.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

// Healthz godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz godoc
// @Summary Readiness probe
// @Description The database must answer; an unreachable cache only degrades.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "up"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("readiness: database unreachable")
		resp.Status = "unavailable"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness: cache unreachable")
			resp.Cache = "down"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	return c.JSON(status, resp)
}
