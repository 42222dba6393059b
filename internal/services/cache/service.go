// Package cache short-circuits repeated report requests. Results are cached
// until the end of the day they were generated: research done in the morning
// stays valid all day but never goes stale across days.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

// Service caches completed report results keyed by request hash
type Service struct {
	config  common.CacheConfig
	storage interfaces.CacheStorage
	logger  arbor.ILogger
	cron    *cron.Cron
}

// NewService creates a new cache service
func NewService(config common.CacheConfig, storage interfaces.CacheStorage, logger arbor.ILogger) *Service {
	return &Service{
		config:  config,
		storage: storage,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start schedules the expired-entry sweep. Badger enforces TTL on reads; the
// sweep reclaims the space of entries nobody asks for again.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Report cache disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.SweepSchedule, func() {
		removed, err := s.storage.SweepExpired(context.Background())
		if err != nil {
			s.logger.Warn().Err(err).Msg("Cache sweep failed")
			return
		}
		s.logger.Info().Int("removed", removed).Msg("Cache sweep completed")
	})
	if err != nil {
		return fmt.Errorf("invalid cache sweep schedule %q: %w", s.config.SweepSchedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.config.SweepSchedule).
		Msg("Cache sweep scheduled")
	return nil
}

// Stop halts the sweep scheduler.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Get returns the cached result for a request, if present and unexpired.
func (s *Service) Get(ctx context.Context, req *models.ReportRequest) (*models.ReportResult, bool) {
	if !s.config.Enabled {
		return nil, false
	}

	key := Key(req)
	data, found, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", shortKey(key)).Msg("Cache lookup failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var result models.ReportResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn().Err(err).Str("key", shortKey(key)).Msg("Cached result is unreadable, dropping entry")
		_ = s.storage.Delete(ctx, key)
		return nil, false
	}

	result.FromCache = true
	s.logger.Info().
		Str("key", shortKey(key)).
		Str("company", req.CompanyName).
		Msg("Report cache hit")
	return &result, true
}

// Put stores a completed result with end-of-day expiry.
func (s *Service) Put(ctx context.Context, req *models.ReportRequest, result *models.ReportResult) error {
	if !s.config.Enabled {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for cache: %w", err)
	}

	key := Key(req)
	ttl := untilEndOfDay(time.Now())
	if err := s.storage.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("failed to store cached result: %w", err)
	}

	s.logger.Debug().
		Str("key", shortKey(key)).
		Dur("ttl", ttl).
		Msg("Cached report result")
	return nil
}

// untilEndOfDay returns the duration from now to local midnight.
func untilEndOfDay(now time.Time) time.Duration {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
