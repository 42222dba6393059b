// Package session suppresses duplicate concurrent report requests. The state
// is a process-local map: two requests for the same company and action share
// one session key, and only the first may run at a time.
package session

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// Service tracks active report sessions keyed by request identity
type Service struct {
	mu     sync.Mutex
	active map[string]activeSession
	logger arbor.ILogger
}

type activeSession struct {
	sessionID string
	startedAt time.Time
}

// NewService creates a new session service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		active: make(map[string]activeSession),
		logger: logger,
	}
}

// Key derives the duplicate-suppression key for a request. Company name is
// case-insensitive; the action distinguishes different operations for the
// same company.
func Key(companyName, action string) string {
	payload := strings.ToLower(strings.TrimSpace(companyName)) + "|" + strings.TrimSpace(action)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Start registers a new active session for the key. It returns false with the
// already-running session ID when a session for the same key is in flight.
func (s *Service) Start(key, sessionID string) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.active[key]; ok {
		s.logger.Info().
			Str("session_id", existing.sessionID).
			Str("duplicate_session_id", sessionID).
			Msg("Duplicate request suppressed, session already active")
		return false, existing.sessionID
	}

	s.active[key] = activeSession{
		sessionID: sessionID,
		startedAt: time.Now(),
	}
	return true, sessionID
}

// Complete releases the session for the key, whatever its outcome.
func (s *Service) Complete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, key)
}

// IsActive reports whether a session for the key is currently running.
func (s *Service) IsActive(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[key]
	return ok
}

// ActiveCount returns the number of in-flight sessions.
func (s *Service) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
