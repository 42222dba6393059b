package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

// StatusStorage implements the StatusStorage interface for Badger
type StatusStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewStatusStorage creates a new StatusStorage instance
func NewStatusStorage(db *BadgerDB, logger arbor.ILogger) interfaces.StatusStorage {
	return &StatusStorage{
		db:     db,
		logger: logger,
	}
}

// Save inserts or updates a session status record
func (s *StatusStorage) Save(ctx context.Context, status *models.SessionStatus) error {
	if status.SessionID == "" {
		return fmt.Errorf("session status requires a session ID")
	}
	if err := s.db.Store().Upsert(status.SessionID, status); err != nil {
		return fmt.Errorf("failed to save session status: %w", err)
	}
	return nil
}

// Get retrieves a session status by session ID
func (s *StatusStorage) Get(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	var status models.SessionStatus
	err := s.db.Store().Get(sessionID, &status)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session status: %w", err)
	}
	return &status, nil
}

// Delete removes a session status record
func (s *StatusStorage) Delete(ctx context.Context, sessionID string) error {
	err := s.db.Store().Delete(sessionID, &models.SessionStatus{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete session status: %w", err)
	}
	return nil
}

// List returns recent session status records ordered by updated_at DESC
func (s *StatusStorage) List(ctx context.Context, limit int) ([]models.SessionStatus, error) {
	query := badgerhold.Where("SessionID").Ne("").SortBy("UpdatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.SessionStatus
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list session statuses: %w", err)
	}
	return records, nil
}
