package converter

import (
	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
)

func RideToResponse(ride *entity.Ride) *model.RideResponse {
	return &model.RideResponse{
		ID:            ride.ID,
		PassengerID:   ride.PassengerID,
		DriverID:      ride.DriverID,
		Pickup:        ride.Pickup,
		Destination:   ride.Destination,
		TransportType: ride.TransportType,
		PricePerKm:    ride.PricePerKm,
		Status:        ride.Status.String(),
		CreatedAt:     ride.CreatedAt,
		UpdatedAt:     ride.UpdatedAt,
	}
}

func RideWithContactToResponse(ride *entity.RideWithContact) *model.RideResponse {
	response := RideToResponse(&ride.Ride)
	if ride.ContactName != nil {
		contact := &model.ContactSummary{FullName: *ride.ContactName}
		if ride.ContactPhone != nil {
			contact.Phone = *ride.ContactPhone
		}
		response.Contact = contact
	}
	return response
}

func RideListToResponse(rides []entity.RideWithContact) []*model.RideResponse {
	responses := make([]*model.RideResponse, 0, len(rides))
	for i := range rides {
		responses = append(responses, RideWithContactToResponse(&rides[i]))
	}
	return responses
}
