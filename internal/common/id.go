package common

import (
	"github.com/google/uuid"
)

// NewSessionID generates a unique report session ID with the "session_" prefix
// Format: session_<uuid>
func NewSessionID() string {
	return "session_" + uuid.New().String()
}

// NewReportID generates a unique report ID with the "report_" prefix
// Format: report_<uuid>
func NewReportID() string {
	return "report_" + uuid.New().String()
}
