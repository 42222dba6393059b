package models

import (
	"fmt"
	"time"
)

// Pipeline checkpoint names, recorded in order as a session progresses.
const (
	CheckpointInitiated         = "initiated"
	CheckpointScrapingStarted   = "scraping_started"
	CheckpointResearchStarted   = "research_started"
	CheckpointResearchCompleted = "research_completed"
	CheckpointUseCasesStarted   = "use_cases_started"
	CheckpointUseCasesCompleted = "use_cases_completed"
	CheckpointReportStarted     = "report_started"
	CheckpointReportCompleted   = "report_completed"
	CheckpointCompleted         = "completed"
	CheckpointError             = "error"
)

// SessionState is the coarse state exposed to the polling API.
type SessionState string

const (
	SessionRunning   SessionState = "running"
	SessionCompleted SessionState = "completed"
	SessionFailed    SessionState = "failed"
)

// Checkpoint is one recorded pipeline milestone.
type Checkpoint struct {
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
	Message string    `json:"message,omitempty"`
}

// SessionStatus is the persisted, pollable status of one report session.
type SessionStatus struct {
	SessionID    string       `json:"session_id" badgerhold:"key"`
	CompanyName  string       `json:"company_name"`
	State        SessionState `json:"state"`
	Checkpoints  []Checkpoint `json:"checkpoints"`
	Error        string       `json:"error,omitempty"`
	Locator      string       `json:"report_url,omitempty"`
	UsedFallback bool         `json:"used_fallback"`
	StartedAt    time.Time    `json:"started_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Latest returns the most recent checkpoint name, or "" when none recorded.
func (s *SessionStatus) Latest() string {
	if len(s.Checkpoints) == 0 {
		return ""
	}
	return s.Checkpoints[len(s.Checkpoints)-1].Name
}

// Elapsed formats the time since the session started as "1m 23s".
func (s *SessionStatus) Elapsed(now time.Time) string {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		d = 0
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}
