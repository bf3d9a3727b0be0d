package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/centroimagen/booking-api/internal/catalog"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Mock implementations for testing

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, apt *types.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to types.AppointmentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CompleteWithResult(ctx context.Context, aptID string, result *types.Result) error {
	args := m.Called(ctx, aptID, result)
	return args.Error(0)
}

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) FindByCredentials(ctx context.Context, email, password string) (*types.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id string) (*types.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*types.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Identity), args.Error(1)
}

func (m *MockIdentityRepository) Create(ctx context.Context, identity *types.Identity, password string) error {
	args := m.Called(ctx, identity, password)
	return args.Error(0)
}

func (m *MockIdentityRepository) List(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Identity), args.Error(1)
}

type recordingNotifier struct {
	booked    int
	cancelled int
	reminded  int
}

func (n *recordingNotifier) AppointmentBooked(identity *types.Identity, apt *types.Appointment, preparation string) {
	n.booked++
}

func (n *recordingNotifier) AppointmentCancelled(identity *types.Identity, apt *types.Appointment, reason string) {
	n.cancelled++
}

func (n *recordingNotifier) AppointmentReminder(identity *types.Identity, apt *types.Appointment, preparation string) {
	n.reminded++
}

func setupTestService() (*Service, *MockAppointmentRepository, *MockIdentityRepository, *recordingNotifier) {
	mockRepo := &MockAppointmentRepository{}
	mockIdentities := &MockIdentityRepository{}
	notifier := &recordingNotifier{}

	service := NewService(logger.New("debug"), nil, mockRepo, mockIdentities, catalog.NewService(), notifier)
	return service, mockRepo, mockIdentities, notifier
}

func testIdentity() *types.Identity {
	return &types.Identity{
		ID:    "user-1",
		Email: "usuario@test.com",
		Name:  "Juan Pérez",
		Role:  types.RoleUser,
		Phone: "0987654321",
	}
}

func TestService_CreateAppointment(t *testing.T) {
	ctx := context.Background()

	validRequest := func() *types.AppointmentRequest {
		return &types.AppointmentRequest{
			ServiceID: "1",
			CenterID:  "1",
			Date:      "2026-09-15",
			Time:      "09:30",
		}
	}

	t.Run("successful booking denormalizes catalog data", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").Return(testIdentity(), nil)

		apt, err := service.CreateAppointment(ctx, "user-1", validRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, apt.ID)
		assert.Equal(t, "user-1", apt.IdentityID)
		assert.Equal(t, types.AppointmentScheduled, apt.Status)
		assert.Equal(t, "Radiografía de Tórax", apt.ServiceName)
		assert.Equal(t, "Centro Imagen Quito", apt.CenterName)
		assert.Equal(t, float64(25), apt.Price)
		assert.Equal(t, 1, notifier.booked)
	})

	t.Run("unknown service is rejected", func(t *testing.T) {
		service, _, _, _ := setupTestService()
		req := validRequest()
		req.ServiceID = "99"

		_, err := service.CreateAppointment(ctx, "user-1", req)

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeValidation, appErr.Type)
	})

	t.Run("non-bookable time slot is rejected", func(t *testing.T) {
		service, _, _, _ := setupTestService()
		req := validRequest()
		req.Time = "12:00"

		_, err := service.CreateAppointment(ctx, "user-1", req)

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Contains(t, appErr.Details, "time")
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		service, _, _, _ := setupTestService()
		req := validRequest()
		req.Date = "15/09/2026"

		_, err := service.CreateAppointment(ctx, "user-1", req)

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Contains(t, appErr.Details, "date")
	})

	t.Run("notification failure does not fail the booking", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*types.Appointment")).Return(nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").
			Return(nil, types.NewNotFoundError("IDENTITY_NOT_FOUND", "Identity not found"))

		_, err := service.CreateAppointment(ctx, "user-1", validRequest())

		assert.NoError(t, err)
		assert.Zero(t, notifier.booked)
	})
}

func TestService_CancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("scheduled appointment can be cancelled by its owner", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockRepo.On("UpdateStatus", mock.Anything, "apt-1", types.AppointmentScheduled, types.AppointmentCancelled).Return(nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").Return(testIdentity(), nil)

		err := service.CancelAppointment(ctx, "apt-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, 1, notifier.cancelled)
	})

	t.Run("cancelling a completed appointment is a conflict", func(t *testing.T) {
		service, mockRepo, _, notifier := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-1", Status: types.AppointmentCompleted}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		err := service.CancelAppointment(ctx, "apt-1", "user-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
		assert.Zero(t, notifier.cancelled)
		mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelling another identity's appointment is not found", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-2", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		err := service.CancelAppointment(ctx, "apt-1", "user-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
	})

	t.Run("concurrent transition surfaces the repository conflict", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockRepo.On("UpdateStatus", mock.Anything, "apt-1", types.AppointmentScheduled, types.AppointmentCancelled).
			Return(types.NewConflictError(types.ErrCodeConflict, "appointment is no longer scheduled"))

		err := service.CancelAppointment(ctx, "apt-1", "user-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
	})
}

func TestService_CompleteAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("completion creates the result in the same repository call", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{
			ID:          "apt-1",
			IdentityID:  "user-1",
			ServiceName: "Radiografía de Tórax",
			Date:        "2026-09-15",
			Status:      types.AppointmentInProgress,
		}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockRepo.On("CompleteWithResult", mock.Anything, "apt-1", mock.AnythingOfType("*types.Result")).Return(nil)

		result, err := service.CompleteAppointment(ctx, "apt-1")

		require.NoError(t, err)
		assert.Equal(t, "apt-1", result.AppointmentID)
		assert.Equal(t, "user-1", result.IdentityID)
		assert.Equal(t, types.ResultProcessing, result.Status)
		assert.Equal(t, "Radiografía de Tórax", result.ServiceName)
		mockRepo.AssertCalled(t, "CompleteWithResult", mock.Anything, "apt-1", mock.AnythingOfType("*types.Result"))
		mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completing a scheduled appointment is rejected", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		_, err := service.CompleteAppointment(ctx, "apt-1")

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "CompleteWithResult", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completing twice is rejected before the repository", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", Status: types.AppointmentCompleted}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		_, err := service.CompleteAppointment(ctx, "apt-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
	})
}

func TestService_AdminTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm moves scheduled to confirmed", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockRepo.On("UpdateStatus", mock.Anything, "apt-1", types.AppointmentScheduled, types.AppointmentConfirmed).Return(nil)

		assert.NoError(t, service.ConfirmAppointment(ctx, "apt-1"))
	})

	t.Run("start requires confirmed", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		assert.Error(t, service.StartAppointment(ctx, "apt-1"))
	})

	t.Run("legacy pending status is treated as scheduled", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		apt := &types.Appointment{ID: "apt-1", Status: "pending"}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockRepo.On("UpdateStatus", mock.Anything, "apt-1", types.AppointmentScheduled, types.AppointmentConfirmed).Return(nil)

		assert.NoError(t, service.ConfirmAppointment(ctx, "apt-1"))
	})
}

func TestService_SendReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed appointment gets a reminder", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()
		apt := &types.Appointment{
			ID:         "apt-1",
			IdentityID: "user-1",
			ServiceID:  "1",
			Status:     types.AppointmentConfirmed,
		}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").Return(testIdentity(), nil)

		require.NoError(t, service.SendReminder(ctx, "apt-1"))
		assert.Equal(t, 1, notifier.reminded)
	})

	t.Run("cancelled appointment cannot be reminded about", func(t *testing.T) {
		service, mockRepo, _, notifier := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-1", Status: types.AppointmentCancelled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)

		err := service.SendReminder(ctx, "apt-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
		assert.Equal(t, 0, notifier.reminded)
	})

	t.Run("identity lookup failure is swallowed", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()
		apt := &types.Appointment{ID: "apt-1", IdentityID: "user-1", Status: types.AppointmentScheduled}

		mockRepo.On("GetByID", mock.Anything, "apt-1").Return(apt, nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").Return(nil, assert.AnError)

		assert.NoError(t, service.SendReminder(ctx, "apt-1"))
		assert.Equal(t, 0, notifier.reminded)
	})
}
