package entity

// RideStatus is a ride status as stored in the `rides.status` column.
type RideStatus string

const (
	StatusPending   RideStatus = "pending"
	StatusAccepted  RideStatus = "accepted"
	StatusCompleted RideStatus = "completed"
	StatusCancelled RideStatus = "cancelled"
)

// Valid reports whether status is one of the allowed ride status constants.
func (status RideStatus) Valid() bool {
	switch status {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the RideStatus.
func (status RideStatus) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
// pending -> accepted (driver claim), pending -> cancelled (passenger),
// accepted -> completed (assigned driver). No other edges exist.
func (status RideStatus) CanTransitionTo(next RideStatus) bool {
	switch status {
	case StatusPending:
		return next == StatusAccepted || next == StatusCancelled

	case StatusAccepted:
		return next == StatusCompleted

	case StatusCompleted, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates if the status is in a terminal state.
func (status RideStatus) Terminal() bool {
	return status == StatusCompleted || status == StatusCancelled
}
