package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Mock implementations for testing

type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) GetByID(ctx context.Context, id string) (*types.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

func (m *MockResultRepository) GetByAppointmentID(ctx context.Context, aptID string) (*types.Result, error) {
	args := m.Called(ctx, aptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Result), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filters *types.ResultFilters) ([]*types.Result, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Result), args.Error(1)
}

func (m *MockResultRepository) UpdateStatus(ctx context.Context, id string, from, to types.ResultStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockResultRepository) CompleteUpload(ctx context.Context, id string, upload *types.ResultUpload) error {
	args := m.Called(ctx, id, upload)
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
	ready int
}

func (n *recordingNotifier) ResultsReady(identity *types.Identity, result *types.Result) {
	n.ready++
}

func setupTestService() (*Service, *MockResultRepository, *MockIdentityRepository, *recordingNotifier) {
	mockRepo := &MockResultRepository{}
	mockIdentities := &MockIdentityRepository{}
	notifier := &recordingNotifier{}

	service := NewService(logger.New("debug"), nil, mockRepo, mockIdentities, notifier)
	return service, mockRepo, mockIdentities, notifier
}

func testResult(status types.ResultStatus) *types.Result {
	return &types.Result{
		ID:            "res-1",
		AppointmentID: "apt-1",
		IdentityID:    "user-1",
		ServiceName:   "Radiografía de Tórax",
		Date:          "2026-09-15",
		Status:        status,
	}
}

func validUpload() *types.ResultUpload {
	return &types.ResultUpload{
		Doctor:    "Dra. Salazar",
		Diagnosis: "Sin hallazgos patológicos",
	}
}

func TestService_GetResult(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can read their result", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil)

		result, err := service.GetResult(ctx, "res-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, "res-1", result.ID)
	})

	t.Run("another identity cannot read the result", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil)

		_, err := service.GetResult(ctx, "res-1", "user-2")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeNotFound, appErr.Type)
	})

	t.Run("admin reads without owner filter", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil)

		result, err := service.GetResult(ctx, "res-1", "")

		require.NoError(t, err)
		assert.Equal(t, "user-1", result.IdentityID)
	})
}

func TestService_MarkReady(t *testing.T) {
	ctx := context.Background()

	t.Run("processing result becomes ready and owner is notified", func(t *testing.T) {
		service, mockRepo, mockIdentities, notifier := setupTestService()

		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultProcessing), nil)
		mockRepo.On("UpdateStatus", mock.Anything, "res-1", types.ResultProcessing, types.ResultReady).Return(nil)
		mockIdentities.On("GetByID", mock.Anything, "user-1").Return(&types.Identity{
			ID: "user-1", Name: "Juan Pérez", Phone: "0987654321",
		}, nil)

		require.NoError(t, service.MarkReady(ctx, "res-1"))
		assert.Equal(t, 1, notifier.ready)
	})

	t.Run("ready result cannot be marked ready again", func(t *testing.T) {
		service, mockRepo, _, notifier := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil)

		err := service.MarkReady(ctx, "res-1")

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
		assert.Zero(t, notifier.ready)
	})
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("valid upload completes a ready result", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		completed := testResult(types.ResultCompleted)
		completed.Doctor = "Dra. Salazar"
		completed.Diagnosis = "Sin hallazgos patológicos"

		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil).Once()
		mockRepo.On("CompleteUpload", mock.Anything, "res-1", mock.AnythingOfType("*types.ResultUpload")).Return(nil)
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(completed, nil).Once()

		result, err := service.Upload(ctx, "res-1", validUpload())

		require.NoError(t, err)
		assert.Equal(t, types.ResultCompleted, result.Status)
		assert.Equal(t, "Dra. Salazar", result.Doctor)
	})

	t.Run("missing doctor rejects the upload with no state change", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		upload := validUpload()
		upload.Doctor = "  "

		_, err := service.Upload(ctx, "res-1", upload)

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Details, "doctor")
		mockRepo.AssertNotCalled(t, "CompleteUpload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing diagnosis rejects the upload", func(t *testing.T) {
		service, _, _, _ := setupTestService()
		upload := validUpload()
		upload.Diagnosis = ""

		_, err := service.Upload(ctx, "res-1", upload)

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Contains(t, appErr.Details, "diagnosis")
	})

	t.Run("uploading against a completed result is a conflict", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultCompleted), nil)

		_, err := service.Upload(ctx, "res-1", validUpload())

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
		mockRepo.AssertNotCalled(t, "CompleteUpload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent duplicate upload loses at the repository", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()

		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultReady), nil)
		mockRepo.On("CompleteUpload", mock.Anything, "res-1", mock.AnythingOfType("*types.ResultUpload")).
			Return(types.NewConflictError(types.ErrCodeConflict, "result is not ready for upload"))

		_, err := service.Upload(ctx, "res-1", validUpload())

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
	})

	t.Run("processing result cannot be uploaded", func(t *testing.T) {
		service, mockRepo, _, _ := setupTestService()
		mockRepo.On("GetByID", mock.Anything, "res-1").Return(testResult(types.ResultProcessing), nil)

		_, err := service.Upload(ctx, "res-1", validUpload())

		appErr, ok := err.(*types.AppError)
		require.True(t, ok)
		assert.Equal(t, types.ErrorTypeConflict, appErr.Type)
	})
}
