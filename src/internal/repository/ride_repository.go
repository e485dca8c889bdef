package repository

import (
	"context"
	"time"

	"ride-service/src/internal/entity"
	"ride-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
)

type RideRepository struct {
	DB mysql.DBInterface
}

func NewRideRepository(db mysql.DBInterface) *RideRepository {
	return &RideRepository{
		DB: db,
	}
}

const rideColumns = `
	r.id,
	r.passenger_id,
	r.driver_id,
	r.pickup,
	r.destination,
	r.transport_type,
	r.price_per_km,
	r.status,
	r.created_at,
	r.updated_at`

// Insert creates a new pending ride; id and created_at are assigned here,
// not by the caller.
func (r *RideRepository) Insert(ctx context.Context, ride *entity.Ride) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	ride.ID = uuid.NewString()
	ride.Status = entity.StatusPending
	ride.DriverID = nil
	now := time.Now().UTC().Truncate(time.Second)
	ride.CreatedAt = now
	ride.UpdatedAt = now

	query := `
		INSERT INTO rides
			(id, passenger_id, pickup, destination, transport_type, price_per_km, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, query,
		ride.ID,
		ride.PassengerID,
		ride.Pickup,
		ride.Destination,
		ride.TransportType,
		ride.PricePerKm,
		ride.Status,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	return err
}

func (r *RideRepository) FindByID(ctx context.Context, id string) (*entity.Ride, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ride entity.Ride
	query := `
		SELECT ` + rideColumns + `
		FROM rides r
		WHERE r.id = ?`

	if err := db.GetContext(ctx, &ride, query, id); err != nil {
		return nil, err
	}
	return &ride, nil
}

// AcceptPending is the claim-race arbiter: a single conditional UPDATE that
// assigns the driver only while the ride is still pending and unclaimed.
// When several drivers race, MySQL row locking guarantees at most one
// statement matches; the losers see zero affected rows. Splitting this into
// a read followed by a write would break the single-driver invariant.
func (r *RideRepository) AcceptPending(ctx context.Context, rideID, driverID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE rides
		SET driver_id = ?, status = 'accepted', updated_at = NOW()
		WHERE id = ? AND status = 'pending' AND driver_id IS NULL`

	result, err := db.ExecContext(ctx, query, driverID, rideID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// CompleteAccepted finishes a ride only while it is accepted and owned by
// the calling driver.
func (r *RideRepository) CompleteAccepted(ctx context.Context, rideID, driverID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE rides
		SET status = 'completed', updated_at = NOW()
		WHERE id = ? AND status = 'accepted' AND driver_id = ?`

	result, err := db.ExecContext(ctx, query, rideID, driverID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// CancelPending cancels a ride only while it is still pending and owned by
// the calling passenger.
func (r *RideRepository) CancelPending(ctx context.Context, rideID, passengerID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE rides
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = ? AND status = 'pending' AND passenger_id = ?`

	result, err := db.ExecContext(ctx, query, rideID, passengerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ListByPassenger returns the passenger's ride history, newest first, with
// the driver's display profile joined when a driver is assigned.
func (r *RideRepository) ListByPassenger(ctx context.Context, passengerID string) ([]entity.RideWithContact, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithContact
	query := `
		SELECT ` + rideColumns + `,
			u.full_name AS contact_name,
			u.phone AS contact_phone
		FROM rides r
		LEFT JOIN users u ON u.id = r.driver_id
		WHERE r.passenger_id = ?
		ORDER BY r.created_at DESC`

	if err := db.SelectContext(ctx, &rides, query, passengerID); err != nil {
		return nil, err
	}
	return rides, nil
}

// ListOpen returns unclaimed pending rides, oldest first, with the
// passenger's contact joined so a driver knows who is waiting.
func (r *RideRepository) ListOpen(ctx context.Context) ([]entity.RideWithContact, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithContact
	query := `
		SELECT ` + rideColumns + `,
			u.full_name AS contact_name,
			u.phone AS contact_phone
		FROM rides r
		JOIN users u ON u.id = r.passenger_id
		WHERE r.status = 'pending' AND r.driver_id IS NULL
		ORDER BY r.created_at ASC`

	if err := db.SelectContext(ctx, &rides, query); err != nil {
		return nil, err
	}
	return rides, nil
}

// ListActiveByDriver returns the driver's in-progress (accepted) rides.
func (r *RideRepository) ListActiveByDriver(ctx context.Context, driverID string) ([]entity.RideWithContact, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithContact
	query := `
		SELECT ` + rideColumns + `,
			u.full_name AS contact_name,
			u.phone AS contact_phone
		FROM rides r
		JOIN users u ON u.id = r.passenger_id
		WHERE r.driver_id = ? AND r.status = 'accepted'
		ORDER BY r.created_at DESC`

	if err := db.SelectContext(ctx, &rides, query, driverID); err != nil {
		return nil, err
	}
	return rides, nil
}
