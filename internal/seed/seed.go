// Package seed registers the demo accounts advertised on the login page.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "intrak/internal/errors"
	"intrak/internal/service"
)

// DemoUsers are the sample credentials, one per dashboard.
var DemoUsers = []service.RegisterInput{
	{Name: "Demo Student", Email: "student@psu.edu.ph", Password: "student123", Role: "student"},
	{Name: "Demo Instructor", Email: "instructor@psu.edu.ph", Password: "instructor123", Role: "instructor"},
	{Name: "Demo Coordinator", Email: "coordinator@psu.edu.ph", Password: "coordinator123", Role: "coordinator"},
}

// Result counts what a seeding run did.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Users registers each input through svc. Accounts that already exist are skipped.
func Users(ctx context.Context, svc service.AuthService, users []service.RegisterInput) (Result, error) {
	var res Result
	for _, in := range users {
		user, err := svc.Register(ctx, in)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateUser):
			log.Debug().Str("email", in.Email).Msg("seed user exists, skipping")
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed %s: %w", in.Email, err)
		default:
			log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("seeded user")
			res.Created++
		}
	}
	return res, nil
}
