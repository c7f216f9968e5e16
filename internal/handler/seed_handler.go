package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"intrak/internal/seed"
	"intrak/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	authService service.AuthService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(authService service.AuthService) *SeedHandler {
	return &SeedHandler{authService: authService}
}

// SeedUsersResponse represents the seed response.
type SeedUsersResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// SeedUsers godoc
// @Summary Seed the demo accounts
// @Description Only mounted when ENVIRONMENT=development.
// @Tags seed
// @Produce json
// @Success 200 {object} SeedUsersResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/users [post]
func (h *SeedHandler) SeedUsers(c echo.Context) error {
	res, err := seed.Users(c.Request().Context(), h.authService, seed.DemoUsers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeedUsersResponse{
		Message: "Demo users seeded",
		Created: res.Created,
		Skipped: res.Skipped,
	})
}
