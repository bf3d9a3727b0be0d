package results

import (
	"context"
	"strings"

	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Notifier receives result lifecycle events
type Notifier interface {
	ResultsReady(identity *types.Identity, result *types.Result)
}

// Service implements the result lifecycle: processing -> ready -> completed
type Service struct {
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector
	repository interfaces.ResultRepository
	identities interfaces.IdentityRepository
	notifier   Notifier
}

// NewService creates a new results service
func NewService(log *logger.Logger, metrics *monitoring.MetricsCollector, repo interfaces.ResultRepository, identities interfaces.IdentityRepository, notifier Notifier) *Service {
	return &Service{
		logger:     log,
		metrics:    metrics,
		repository: repo,
		identities: identities,
		notifier:   notifier,
	}
}

// GetResult returns one result. When identityID is non-empty the result
// must belong to that identity; results are never served across owners.
func (s *Service) GetResult(ctx context.Context, resultID, identityID string) (*types.Result, error) {
	result, err := s.repository.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if identityID != "" && result.IdentityID != identityID {
		return nil, types.NewNotFoundError("RESULT_NOT_FOUND", "Result not found")
	}
	return result, nil
}

// GetIdentityResults lists the results owned by the identity
func (s *Service) GetIdentityResults(ctx context.Context, identityID string) ([]*types.Result, error) {
	return s.repository.List(ctx, &types.ResultFilters{IdentityID: identityID})
}

// GetResults lists results matching the filters (admin surface)
func (s *Service) GetResults(ctx context.Context, filters *types.ResultFilters) ([]*types.Result, error) {
	if filters == nil {
		filters = &types.ResultFilters{}
	}
	return s.repository.List(ctx, filters)
}

// MarkReady moves a processing result to ready and notifies the owner
func (s *Service) MarkReady(ctx context.Context, resultID string) error {
	result, err := s.repository.GetByID(ctx, resultID)
	if err != nil {
		return err
	}

	if result.Status != types.ResultProcessing {
		s.recordTransition(result.Status, types.ResultReady, false)
		return types.NewConflictError(types.ErrCodeConflict,
			"only a processing result can be marked ready")
	}

	if err := s.repository.UpdateStatus(ctx, resultID, types.ResultProcessing, types.ResultReady); err != nil {
		s.recordTransition(types.ResultProcessing, types.ResultReady, false)
		return err
	}

	s.recordTransition(types.ResultProcessing, types.ResultReady, true)
	s.logger.WithField("result_id", resultID).Info("Result marked ready")

	result.Status = types.ResultReady
	s.notifyReady(ctx, result)
	return nil
}

// Upload attaches the clinical report to a ready result and completes it.
// Doctor and diagnosis are mandatory; an empty value rejects the upload
// with no state change. Uploading against an already-completed result is
// a conflict, never a duplicate.
func (s *Service) Upload(ctx context.Context, resultID string, upload *types.ResultUpload) (*types.Result, error) {
	if err := validateUpload(upload); err != nil {
		return nil, err
	}

	result, err := s.repository.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}

	if result.Status != types.ResultReady {
		s.recordTransition(result.Status, types.ResultCompleted, false)
		return nil, types.NewConflictError(types.ErrCodeConflict,
			"result is not ready for upload")
	}

	if err := s.repository.CompleteUpload(ctx, resultID, upload); err != nil {
		s.recordTransition(types.ResultReady, types.ResultCompleted, false)
		return nil, err
	}

	s.recordTransition(types.ResultReady, types.ResultCompleted, true)
	s.logger.WithFields(map[string]interface{}{
		"result_id": resultID,
		"doctor":    upload.Doctor,
	}).Info("Result upload completed")

	return s.repository.GetByID(ctx, resultID)
}

func (s *Service) notifyReady(ctx context.Context, result *types.Result) {
	if s.notifier == nil {
		return
	}
	identity, err := s.identities.GetByID(ctx, result.IdentityID)
	if err != nil {
		s.logger.WithError(err).Warn("Skipping results-ready notification, identity lookup failed")
		return
	}
	s.notifier.ResultsReady(identity, result)
}

func (s *Service) recordTransition(from, to types.ResultStatus, accepted bool) {
	if s.metrics != nil {
		s.metrics.RecordLifecycleTransition("result", string(from), string(to), accepted)
	}
}

func validateUpload(upload *types.ResultUpload) error {
	if upload == nil {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Upload data is required", nil)
	}

	details := map[string]interface{}{}
	if strings.TrimSpace(upload.Doctor) == "" {
		details["doctor"] = "doctor is required"
	}
	if strings.TrimSpace(upload.Diagnosis) == "" {
		details["diagnosis"] = "diagnosis is required"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Upload validation failed", details)
	}
	return nil
}

var _ interfaces.ResultService = (*Service)(nil)
