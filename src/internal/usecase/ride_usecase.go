package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
	"ride-service/src/internal/model/converter"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// RideRepository is what the lifecycle manager needs from the data store.
// The three conditional mutations report (matched, err): matched=false means
// the WHERE predicate no longer held, i.e. the transition was lost.
type RideRepository interface {
	Insert(ctx context.Context, ride *entity.Ride) error
	FindByID(ctx context.Context, id string) (*entity.Ride, error)
	AcceptPending(ctx context.Context, rideID, driverID string) (bool, error)
	CompleteAccepted(ctx context.Context, rideID, driverID string) (bool, error)
	CancelPending(ctx context.Context, rideID, passengerID string) (bool, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]entity.RideWithContact, error)
	ListOpen(ctx context.Context) ([]entity.RideWithContact, error)
	ListActiveByDriver(ctx context.Context, driverID string) ([]entity.RideWithContact, error)
}

// RideUseCase enforces the ride lifecycle: which status transitions are
// legal, who may perform them, and how racing claims are arbitrated.
type RideUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	RideRepository RideRepository
}

func NewRideUseCase(
	logger log.Log,
	validate *validator.Validate,
	rideRepository RideRepository,
) *RideUseCase {
	return &RideUseCase{
		Log:            logger,
		Validate:       validate,
		RideRepository: rideRepository,
	}
}

// CreateRide validates the request and inserts a new pending ride with no
// driver assigned.
func (c *RideUseCase) CreateRide(ctx context.Context, request *model.CreateRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CreateRide", utils.ConvertString(request))
		return result
	}

	ride := &entity.Ride{
		PassengerID:   request.PassengerID,
		Pickup:        request.Pickup,
		Destination:   request.Destination,
		TransportType: request.TransportType,
		PricePerKm:    request.PricePerKm,
	}
	if err := c.RideRepository.Insert(ctx, ride); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to create ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error insert ride: %v", err), "CreateRide", "")
		return result
	}

	c.Log.Info("ride-usecase", "ride created", "CreateRide", ride.ID)
	result.Data = converter.RideToResponse(ride)
	return result
}

// AcceptRide claims a pending ride for a driver. The pre-read only shapes
// the error message; the single conditional update in AcceptPending is the
// arbiter when several drivers race, so at most one of them wins.
func (c *RideUseCase) AcceptRide(ctx context.Context, request *model.AcceptRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "AcceptRide", utils.ConvertString(request))
		return result
	}

	ride, err := c.findRide(ctx, request.RideID, "AcceptRide", &result)
	if err != nil {
		return result
	}

	switch ride.Status {
	case entity.StatusCompleted, entity.StatusCancelled:
		errObj := httpError.NewConflict()
		errObj.Message = "ride is no longer available (already completed or cancelled)"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "AcceptRide", ride.Status.String())
		return result

	case entity.StatusAccepted:
		errObj := httpError.NewConflict()
		errObj.Message = "ride already accepted by another driver"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "AcceptRide", ride.Status.String())
		return result

	case entity.StatusPending:
		// continue
	default:
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("ride in invalid state for accept: %s", ride.Status)
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "AcceptRide", ride.Status.String())
		return result
	}

	ok, err := c.RideRepository.AcceptPending(ctx, request.RideID, request.DriverID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to accept ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error accept ride: %v", err), "AcceptRide", "")
		return result
	}
	if !ok {
		// lost the claim race; the caller should re-list open rides
		errObj := httpError.NewConflict()
		errObj.Message = "ride already accepted or not found"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "AcceptRide", "concurrent-update")
		return result
	}

	ride.Status = entity.StatusAccepted
	ride.DriverID = &request.DriverID

	c.Log.Info("ride-usecase", "ride accepted", "AcceptRide", request.RideID)
	result.Data = converter.RideToResponse(ride)
	return result
}

// CompleteRide finishes an accepted ride; only the assigned driver may do it.
func (c *RideUseCase) CompleteRide(ctx context.Context, request *model.CompleteRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CompleteRide", utils.ConvertString(request))
		return result
	}

	ride, err := c.findRide(ctx, request.RideID, "CompleteRide", &result)
	if err != nil {
		return result
	}

	if ride.Status != entity.StatusAccepted {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("only accepted rides can be completed, current status: %s", ride.Status)
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CompleteRide", ride.Status.String())
		return result
	}
	if ride.DriverID == nil || *ride.DriverID != request.DriverID {
		errObj := httpError.NewConflict()
		errObj.Message = "you are not the assigned driver for this ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CompleteRide", "")
		return result
	}

	ok, err := c.RideRepository.CompleteAccepted(ctx, request.RideID, request.DriverID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to complete ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error complete ride: %v", err), "CompleteRide", "")
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "ride could not be completed, it may have been changed concurrently"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CompleteRide", "concurrent-update")
		return result
	}

	ride.Status = entity.StatusCompleted

	c.Log.Info("ride-usecase", "ride completed", "CompleteRide", request.RideID)
	result.Data = converter.RideToResponse(ride)
	return result
}

// CancelRide cancels a pending ride; only the owning passenger may do it.
func (c *RideUseCase) CancelRide(ctx context.Context, request *model.CancelRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CancelRide", utils.ConvertString(request))
		return result
	}

	ride, err := c.findRide(ctx, request.RideID, "CancelRide", &result)
	if err != nil {
		return result
	}

	if ride.Status != entity.StatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("only pending rides can be cancelled, current status: %s", ride.Status)
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CancelRide", ride.Status.String())
		return result
	}
	if ride.PassengerID != request.PassengerID {
		errObj := httpError.NewConflict()
		errObj.Message = "you are not the passenger of this ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CancelRide", "")
		return result
	}

	ok, err := c.RideRepository.CancelPending(ctx, request.RideID, request.PassengerID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to cancel ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error cancel ride: %v", err), "CancelRide", "")
		return result
	}
	if !ok {
		errObj := httpError.NewConflict()
		errObj.Message = "ride could not be cancelled, it is no longer pending"
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "CancelRide", "concurrent-update")
		return result
	}

	ride.Status = entity.StatusCancelled

	c.Log.Info("ride-usecase", "ride cancelled", "CancelRide", request.RideID)
	result.Data = converter.RideToResponse(ride)
	return result
}

// ListForPassenger returns the passenger's ride history with driver contact.
func (c *RideUseCase) ListForPassenger(ctx context.Context, passengerID string) utils.Result {
	var result utils.Result

	rides, err := c.RideRepository.ListByPassenger(ctx, passengerID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list rides"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error list passenger rides: %v", err), "ListForPassenger", "")
		return result
	}

	result.Data = converter.RideListToResponse(rides)
	return result
}

// ListOpenForDrivers returns claimable rides: pending with no driver.
func (c *RideUseCase) ListOpenForDrivers(ctx context.Context) utils.Result {
	var result utils.Result

	rides, err := c.RideRepository.ListOpen(ctx)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list open rides"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error list open rides: %v", err), "ListOpenForDrivers", "")
		return result
	}

	result.Data = converter.RideListToResponse(rides)
	return result
}

// ListActiveForDriver returns the driver's accepted rides.
func (c *RideUseCase) ListActiveForDriver(ctx context.Context, driverID string) utils.Result {
	var result utils.Result

	rides, err := c.RideRepository.ListActiveByDriver(ctx, driverID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list active rides"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error list active rides: %v", err), "ListActiveForDriver", "")
		return result
	}

	result.Data = converter.RideListToResponse(rides)
	return result
}

func (c *RideUseCase) findRide(ctx context.Context, rideID, scope string, result *utils.Result) (*entity.Ride, error) {
	ride, err := c.RideRepository.FindByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			errObj := httpError.NewNotFound()
			errObj.Message = fmt.Sprintf("ride with id %s not found", rideID)
			result.Error = errObj
			c.Log.Error("ride-usecase", errObj.Message, scope, "")
			return nil, err
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("error find ride: %v", err), scope, "")
		return nil, err
	}
	return ride, nil
}
