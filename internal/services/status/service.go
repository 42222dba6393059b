// Package status tracks pipeline checkpoints per report session and persists
// them for the polling API. Checkpoint writes are best effort: a storage
// hiccup must never fail the pipeline itself.
package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

// Service records and serves session status
type Service struct {
	storage interfaces.StatusStorage
	logger  arbor.ILogger
	mu      sync.Mutex
}

// NewService creates a new status service
func NewService(storage interfaces.StatusStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Begin creates the status record for a new session.
func (s *Service) Begin(ctx context.Context, sessionID, companyName string) error {
	now := time.Now()
	record := &models.SessionStatus{
		SessionID:   sessionID,
		CompanyName: companyName,
		State:       models.SessionRunning,
		Checkpoints: []models.Checkpoint{
			{Name: models.CheckpointInitiated, At: now},
		},
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to create session status: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("company", companyName).
		Msg("Session started")
	return nil
}

// Checkpoint appends a milestone to the session's history.
func (s *Service) Checkpoint(ctx context.Context, sessionID, name, message string) {
	s.update(ctx, sessionID, func(record *models.SessionStatus) {
		record.Checkpoints = append(record.Checkpoints, models.Checkpoint{
			Name:    name,
			At:      time.Now(),
			Message: message,
		})
	})

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("checkpoint", name).
		Msg("Session checkpoint")
}

// Complete marks the session finished with its result locator.
func (s *Service) Complete(ctx context.Context, sessionID, locator string, usedFallback bool) {
	s.update(ctx, sessionID, func(record *models.SessionStatus) {
		record.State = models.SessionCompleted
		record.Locator = locator
		record.UsedFallback = usedFallback
		record.Checkpoints = append(record.Checkpoints, models.Checkpoint{
			Name: models.CheckpointCompleted,
			At:   time.Now(),
		})
	})

	s.logger.Info().
		Str("session_id", sessionID).
		Str("locator", locator).
		Bool("used_fallback", usedFallback).
		Msg("Session completed")
}

// Fail marks the session failed with the terminal cause.
func (s *Service) Fail(ctx context.Context, sessionID string, cause error) {
	s.update(ctx, sessionID, func(record *models.SessionStatus) {
		record.State = models.SessionFailed
		record.Error = cause.Error()
		record.Checkpoints = append(record.Checkpoints, models.Checkpoint{
			Name:    models.CheckpointError,
			At:      time.Now(),
			Message: cause.Error(),
		})
	})

	s.logger.Error().
		Err(cause).
		Str("session_id", sessionID).
		Msg("Session failed")
}

// Get returns the persisted status for a session.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	return s.storage.Get(ctx, sessionID)
}

// List returns recent sessions, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]models.SessionStatus, error) {
	return s.storage.List(ctx, limit)
}

// update applies a read-modify-write under the service mutex so concurrent
// checkpoints on one session cannot lose history.
func (s *Service) update(ctx context.Context, sessionID string, apply func(*models.SessionStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.storage.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Msg("Failed to load session status for update")
		return
	}

	apply(record)
	record.UpdatedAt = time.Now()

	if err := s.storage.Save(ctx, record); err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Msg("Failed to persist session status update")
	}
}
