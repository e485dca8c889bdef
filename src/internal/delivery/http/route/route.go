package route

import (
	"ride-service/src/internal/delivery/http"
	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/pkg/token"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App            *fiber.App
	RideController *http.RideController
	AuthController *http.AuthController
	AuthMiddleware fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupGuestRoute()
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupGuestRoute() {
	c.App.Post("/auth/v1/register", c.AuthController.Register)
	c.App.Post("/auth/v1/login", c.AuthController.Login)
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	c.App.Get("/users/v1/profile", c.AuthController.GetProfile)

	passengerOnly := middleware.RequireRole(token.RolePassenger)
	driverOnly := middleware.RequireRole(token.RoleDriver)

	c.App.Post("/rides", passengerOnly, c.RideController.CreateRide)
	c.App.Get("/rides", c.RideController.ListRides)
	c.App.Get("/rides/active", driverOnly, c.RideController.ListActiveRides)
	c.App.Post("/rides/:rideId/accept", driverOnly, c.RideController.AcceptRide)
	c.App.Post("/rides/:rideId/complete", driverOnly, c.RideController.CompleteRide)
	c.App.Post("/rides/:rideId/cancel", passengerOnly, c.RideController.CancelRide)
}
