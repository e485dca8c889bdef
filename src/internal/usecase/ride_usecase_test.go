package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRideUseCase(repo RideRepository) *RideUseCase {
	return NewRideUseCase(log.Log{}, validator.New(), repo)
}

func errorCode(t *testing.T, result utils.Result) int {
	t.Helper()
	var commonErr *httpError.CommonError
	require.ErrorAs(t, result.Error, &commonErr)
	return commonErr.Code
}

// ---- testify mock over the repository contract ----

type mockRideRepository struct {
	mock.Mock
}

func (m *mockRideRepository) Insert(ctx context.Context, ride *entity.Ride) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *mockRideRepository) FindByID(ctx context.Context, id string) (*entity.Ride, error) {
	args := m.Called(ctx, id)
	if ride, ok := args.Get(0).(*entity.Ride); ok {
		return ride, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRideRepository) AcceptPending(ctx context.Context, rideID, driverID string) (bool, error) {
	args := m.Called(ctx, rideID, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRideRepository) CompleteAccepted(ctx context.Context, rideID, driverID string) (bool, error) {
	args := m.Called(ctx, rideID, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRideRepository) CancelPending(ctx context.Context, rideID, passengerID string) (bool, error) {
	args := m.Called(ctx, rideID, passengerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRideRepository) ListByPassenger(ctx context.Context, passengerID string) ([]entity.RideWithContact, error) {
	args := m.Called(ctx, passengerID)
	rides, _ := args.Get(0).([]entity.RideWithContact)
	return rides, args.Error(1)
}

func (m *mockRideRepository) ListOpen(ctx context.Context) ([]entity.RideWithContact, error) {
	args := m.Called(ctx)
	rides, _ := args.Get(0).([]entity.RideWithContact)
	return rides, args.Error(1)
}

func (m *mockRideRepository) ListActiveByDriver(ctx context.Context, driverID string) ([]entity.RideWithContact, error) {
	args := m.Called(ctx, driverID)
	rides, _ := args.Get(0).([]entity.RideWithContact)
	return rides, args.Error(1)
}

func pendingRide(id, passengerID string) *entity.Ride {
	return &entity.Ride{
		ID:            id,
		PassengerID:   passengerID,
		Pickup:        "A",
		Destination:   "B",
		TransportType: entity.TransportCar,
		PricePerKm:    15,
		Status:        entity.StatusPending,
	}
}

func acceptedRide(id, passengerID, driverID string) *entity.Ride {
	ride := pendingRide(id, passengerID)
	ride.Status = entity.StatusAccepted
	ride.DriverID = &driverID
	return ride
}

// ---- create ----

func TestCreateRideValid(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*entity.Ride")).
		Run(func(args mock.Arguments) {
			ride := args.Get(1).(*entity.Ride)
			ride.ID = "ride-1"
			ride.Status = entity.StatusPending
		}).
		Return(nil)

	uc := newRideUseCase(repo)
	result := uc.CreateRide(context.Background(), &model.CreateRideRequest{
		PassengerID:   "passenger-1",
		Pickup:        "A",
		Destination:   "B",
		TransportType: "car",
		PricePerKm:    15,
	})

	require.NoError(t, result.Error)
	response := result.Data.(*model.RideResponse)
	assert.Equal(t, "pending", response.Status)
	assert.Nil(t, response.DriverID)
	assert.Equal(t, "passenger-1", response.PassengerID)
	repo.AssertExpectations(t)
}

func TestCreateRideValidation(t *testing.T) {
	uc := newRideUseCase(new(mockRideRepository))

	tests := []struct {
		name    string
		request *model.CreateRideRequest
		field   string
	}{
		{
			name: "missing pickup",
			request: &model.CreateRideRequest{
				PassengerID: "p-1", Destination: "B", TransportType: "car", PricePerKm: 10,
			},
			field: "Pickup",
		},
		{
			name: "missing destination",
			request: &model.CreateRideRequest{
				PassengerID: "p-1", Pickup: "A", TransportType: "car", PricePerKm: 10,
			},
			field: "Destination",
		},
		{
			name: "unknown transport type",
			request: &model.CreateRideRequest{
				PassengerID: "p-1", Pickup: "A", Destination: "B", TransportType: "plane", PricePerKm: 10,
			},
			field: "TransportType",
		},
		{
			name: "zero price",
			request: &model.CreateRideRequest{
				PassengerID: "p-1", Pickup: "A", Destination: "B", TransportType: "bike",
			},
			field: "PricePerKm",
		},
		{
			name: "negative price",
			request: &model.CreateRideRequest{
				PassengerID: "p-1", Pickup: "A", Destination: "B", TransportType: "bus", PricePerKm: -3,
			},
			field: "PricePerKm",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := uc.CreateRide(context.Background(), tc.request)
			assert.Equal(t, http.StatusBadRequest, errorCode(t, result))
			assert.Contains(t, result.Error.Error(), tc.field)
		})
	}
}

// ---- accept ----

func TestAcceptRideSuccess(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)
	repo.On("AcceptPending", mock.Anything, "ride-1", "driver-1").Return(true, nil)

	uc := newRideUseCase(repo)
	result := uc.AcceptRide(context.Background(), &model.AcceptRideRequest{RideID: "ride-1", DriverID: "driver-1"})

	require.NoError(t, result.Error)
	response := result.Data.(*model.RideResponse)
	assert.Equal(t, "accepted", response.Status)
	require.NotNil(t, response.DriverID)
	assert.Equal(t, "driver-1", *response.DriverID)
	repo.AssertExpectations(t)
}

func TestAcceptRideNotFound(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	uc := newRideUseCase(repo)
	result := uc.AcceptRide(context.Background(), &model.AcceptRideRequest{RideID: "missing", DriverID: "driver-1"})

	assert.Equal(t, http.StatusNotFound, errorCode(t, result))
	repo.AssertNotCalled(t, "AcceptPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRideAlreadyAccepted(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(acceptedRide("ride-1", "passenger-1", "driver-1"), nil)

	uc := newRideUseCase(repo)
	result := uc.AcceptRide(context.Background(), &model.AcceptRideRequest{RideID: "ride-1", DriverID: "driver-2"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
	repo.AssertNotCalled(t, "AcceptPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRideLostRace(t *testing.T) {
	// the pre-read still sees pending, but another driver wins the
	// conditional update in between
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)
	repo.On("AcceptPending", mock.Anything, "ride-1", "driver-2").Return(false, nil)

	uc := newRideUseCase(repo)
	result := uc.AcceptRide(context.Background(), &model.AcceptRideRequest{RideID: "ride-1", DriverID: "driver-2"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
	assert.Contains(t, result.Error.Error(), "already accepted or not found")
	repo.AssertExpectations(t)
}

func TestAcceptRideStoreFailure(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)
	repo.On("AcceptPending", mock.Anything, "ride-1", "driver-1").Return(false, errors.New("connection reset"))

	uc := newRideUseCase(repo)
	result := uc.AcceptRide(context.Background(), &model.AcceptRideRequest{RideID: "ride-1", DriverID: "driver-1"})

	assert.Equal(t, http.StatusInternalServerError, errorCode(t, result))
}

// ---- complete ----

func TestCompleteRideSuccess(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(acceptedRide("ride-1", "passenger-1", "driver-1"), nil)
	repo.On("CompleteAccepted", mock.Anything, "ride-1", "driver-1").Return(true, nil)

	uc := newRideUseCase(repo)
	result := uc.CompleteRide(context.Background(), &model.CompleteRideRequest{RideID: "ride-1", DriverID: "driver-1"})

	require.NoError(t, result.Error)
	response := result.Data.(*model.RideResponse)
	assert.Equal(t, "completed", response.Status)
	repo.AssertExpectations(t)
}

func TestCompleteRideWrongDriver(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(acceptedRide("ride-1", "passenger-1", "driver-1"), nil)

	uc := newRideUseCase(repo)
	result := uc.CompleteRide(context.Background(), &model.CompleteRideRequest{RideID: "ride-1", DriverID: "driver-2"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
	repo.AssertNotCalled(t, "CompleteAccepted", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteRideNotAccepted(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)

	uc := newRideUseCase(repo)
	result := uc.CompleteRide(context.Background(), &model.CompleteRideRequest{RideID: "ride-1", DriverID: "driver-1"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
}

// ---- cancel ----

func TestCancelRideSuccess(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)
	repo.On("CancelPending", mock.Anything, "ride-1", "passenger-1").Return(true, nil)

	uc := newRideUseCase(repo)
	result := uc.CancelRide(context.Background(), &model.CancelRideRequest{RideID: "ride-1", PassengerID: "passenger-1"})

	require.NoError(t, result.Error)
	response := result.Data.(*model.RideResponse)
	assert.Equal(t, "cancelled", response.Status)
	repo.AssertExpectations(t)
}

func TestCancelRideWrongPassenger(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(pendingRide("ride-1", "passenger-1"), nil)

	uc := newRideUseCase(repo)
	result := uc.CancelRide(context.Background(), &model.CancelRideRequest{RideID: "ride-1", PassengerID: "passenger-2"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
	repo.AssertNotCalled(t, "CancelPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelRideNoLongerPending(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("FindByID", mock.Anything, "ride-1").Return(acceptedRide("ride-1", "passenger-1", "driver-1"), nil)

	uc := newRideUseCase(repo)
	result := uc.CancelRide(context.Background(), &model.CancelRideRequest{RideID: "ride-1", PassengerID: "passenger-1"})

	assert.Equal(t, http.StatusConflict, errorCode(t, result))
}

// ---- concurrency: the claim race ----

// fakeRideStore implements the repository contract in memory with the same
// compare-and-set semantics the SQL layer provides: each conditional
// mutation checks its predicate and applies atomically under one lock.
type fakeRideStore struct {
	mu    sync.Mutex
	rides map[string]*entity.Ride
}

func newFakeRideStore() *fakeRideStore {
	return &fakeRideStore{rides: make(map[string]*entity.Ride)}
}

func (f *fakeRideStore) Insert(_ context.Context, ride *entity.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride.ID = fmt.Sprintf("ride-%d", len(f.rides)+1)
	ride.Status = entity.StatusPending
	ride.DriverID = nil
	stored := *ride
	f.rides[ride.ID] = &stored
	return nil
}

func (f *fakeRideStore) FindByID(_ context.Context, id string) (*entity.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *ride
	return &copied, nil
}

func (f *fakeRideStore) AcceptPending(_ context.Context, rideID, driverID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != entity.StatusPending || ride.DriverID != nil {
		return false, nil
	}
	assigned := driverID
	ride.DriverID = &assigned
	ride.Status = entity.StatusAccepted
	return true, nil
}

func (f *fakeRideStore) CompleteAccepted(_ context.Context, rideID, driverID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != entity.StatusAccepted || ride.DriverID == nil || *ride.DriverID != driverID {
		return false, nil
	}
	ride.Status = entity.StatusCompleted
	return true, nil
}

func (f *fakeRideStore) CancelPending(_ context.Context, rideID, passengerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != entity.StatusPending || ride.PassengerID != passengerID {
		return false, nil
	}
	ride.Status = entity.StatusCancelled
	return true, nil
}

func (f *fakeRideStore) ListByPassenger(_ context.Context, passengerID string) ([]entity.RideWithContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.RideWithContact
	for _, ride := range f.rides {
		if ride.PassengerID == passengerID {
			out = append(out, entity.RideWithContact{Ride: *ride})
		}
	}
	return out, nil
}

func (f *fakeRideStore) ListOpen(_ context.Context) ([]entity.RideWithContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.RideWithContact
	for _, ride := range f.rides {
		if ride.Status == entity.StatusPending && ride.DriverID == nil {
			out = append(out, entity.RideWithContact{Ride: *ride})
		}
	}
	return out, nil
}

func (f *fakeRideStore) ListActiveByDriver(_ context.Context, driverID string) ([]entity.RideWithContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.RideWithContact
	for _, ride := range f.rides {
		if ride.Status == entity.StatusAccepted && ride.DriverID != nil && *ride.DriverID == driverID {
			out = append(out, entity.RideWithContact{Ride: *ride})
		}
	}
	return out, nil
}

func TestConcurrentAcceptExactlyOneWinner(t *testing.T) {
	store := newFakeRideStore()
	uc := newRideUseCase(store)

	created := uc.CreateRide(context.Background(), &model.CreateRideRequest{
		PassengerID:   "passenger-1",
		Pickup:        "A",
		Destination:   "B",
		TransportType: "car",
		PricePerKm:    15,
	})
	require.NoError(t, created.Error)
	rideID := created.Data.(*model.RideResponse).ID

	const drivers = 25
	results := make([]utils.Result, drivers)
	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = uc.AcceptRide(context.Background(), &model.AcceptRideRequest{
				RideID:   rideID,
				DriverID: fmt.Sprintf("driver-%d", i),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	winnerDriver := ""
	for i, result := range results {
		if result.Error == nil {
			winners++
			response := result.Data.(*model.RideResponse)
			require.NotNil(t, response.DriverID)
			winnerDriver = *response.DriverID
			assert.Equal(t, fmt.Sprintf("driver-%d", i), winnerDriver)
		} else {
			assert.Equal(t, http.StatusConflict, errorCode(t, result))
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent accept must win")

	stored, err := store.FindByID(context.Background(), rideID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, stored.Status)
	require.NotNil(t, stored.DriverID)
	assert.Equal(t, winnerDriver, *stored.DriverID)
}

func TestRideLifecycleEndToEnd(t *testing.T) {
	store := newFakeRideStore()
	uc := newRideUseCase(store)
	ctx := context.Background()

	created := uc.CreateRide(ctx, &model.CreateRideRequest{
		PassengerID:   "passenger-1",
		Pickup:        "A",
		Destination:   "B",
		TransportType: "car",
		PricePerKm:    15,
	})
	require.NoError(t, created.Error)
	ride := created.Data.(*model.RideResponse)
	assert.Equal(t, "pending", ride.Status)
	assert.Nil(t, ride.DriverID)

	// two drivers race; exactly one wins
	first := uc.AcceptRide(ctx, &model.AcceptRideRequest{RideID: ride.ID, DriverID: "driver-x"})
	second := uc.AcceptRide(ctx, &model.AcceptRideRequest{RideID: ride.ID, DriverID: "driver-y"})
	require.NoError(t, first.Error)
	assert.Equal(t, http.StatusConflict, errorCode(t, second))

	// the loser no longer sees the ride in the open list
	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// the winner completes
	completed := uc.CompleteRide(ctx, &model.CompleteRideRequest{RideID: ride.ID, DriverID: "driver-x"})
	require.NoError(t, completed.Error)
	assert.Equal(t, "completed", completed.Data.(*model.RideResponse).Status)

	// a late cancel by the passenger is rejected: the ride is not pending
	cancelled := uc.CancelRide(ctx, &model.CancelRideRequest{RideID: ride.ID, PassengerID: "passenger-1"})
	assert.Equal(t, http.StatusConflict, errorCode(t, cancelled))

	// terminal states stay terminal
	reaccept := uc.AcceptRide(ctx, &model.AcceptRideRequest{RideID: ride.ID, DriverID: "driver-z"})
	assert.Equal(t, http.StatusConflict, errorCode(t, reaccept))
}

// ---- listings ----

func TestListForPassengerMapsContact(t *testing.T) {
	name := "John Driver"
	phone := "555-0101"
	driverID := "driver-1"
	repo := new(mockRideRepository)
	repo.On("ListByPassenger", mock.Anything, "passenger-1").Return([]entity.RideWithContact{
		{
			Ride:         *acceptedRide("ride-1", "passenger-1", driverID),
			ContactName:  &name,
			ContactPhone: &phone,
		},
	}, nil)

	uc := newRideUseCase(repo)
	result := uc.ListForPassenger(context.Background(), "passenger-1")

	require.NoError(t, result.Error)
	responses := result.Data.([]*model.RideResponse)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Contact)
	assert.Equal(t, "John Driver", responses[0].Contact.FullName)
	assert.Equal(t, "555-0101", responses[0].Contact.Phone)
}

func TestListOpenForDriversStoreFailure(t *testing.T) {
	repo := new(mockRideRepository)
	repo.On("ListOpen", mock.Anything).Return(nil, errors.New("connection refused"))

	uc := newRideUseCase(repo)
	result := uc.ListOpenForDrivers(context.Background())

	assert.Equal(t, http.StatusInternalServerError, errorCode(t, result))
}
