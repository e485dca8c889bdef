package http

import (
	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/internal/model"
	"ride-service/src/internal/usecase"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/token"
	"ride-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type RideController struct {
	Log     log.Log
	UseCase *usecase.RideUseCase
}

func NewRideController(useCase *usecase.RideUseCase, logger log.Log) *RideController {
	return &RideController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RideController) CreateRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RideController.CreateRide", "failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.PassengerID = auth.UserID

	result := c.UseCase.CreateRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Ride Created", fiber.StatusCreated, ctx)
}

func (c *RideController) AcceptRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.AcceptRideRequest{
		RideID:   ctx.Params("rideId"),
		DriverID: auth.UserID,
	}

	result := c.UseCase.AcceptRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Ride Accepted", fiber.StatusOK, ctx)
}

func (c *RideController) CompleteRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.CompleteRideRequest{
		RideID:   ctx.Params("rideId"),
		DriverID: auth.UserID,
	}

	result := c.UseCase.CompleteRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Ride Completed", fiber.StatusOK, ctx)
}

func (c *RideController) CancelRide(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.CancelRideRequest{
		RideID:      ctx.Params("rideId"),
		PassengerID: auth.UserID,
	}

	result := c.UseCase.CancelRide(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Ride Cancelled", fiber.StatusOK, ctx)
}

// ListRides answers GET /rides by role: passengers see their own history,
// drivers see the open (claimable) rides. The optional ?role= query must
// match the caller's own role claim.
func (c *RideController) ListRides(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	role := ctx.Query("role", string(auth.Role))
	if role != string(auth.Role) {
		errObj := httpError.NewUnauthorized()
		errObj.Message = role + " role required"
		return utils.ResponseError(errObj, ctx)
	}

	var result utils.Result
	if auth.Role == token.RoleDriver {
		result = c.UseCase.ListOpenForDrivers(ctx.Context())
	} else {
		result = c.UseCase.ListForPassenger(ctx.Context(), auth.UserID)
	}
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Ride List", fiber.StatusOK, ctx)
}

func (c *RideController) ListActiveRides(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	result := c.UseCase.ListActiveForDriver(ctx.Context(), auth.UserID)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Active Ride List", fiber.StatusOK, ctx)
}
