// Package artifacts persists rendered report PDFs and hands back locator
// URLs. The store is injected into the pipeline so alternative backends can
// replace the filesystem implementation without touching report code.
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.ArtifactStore = (*FilesystemStore)(nil)

var unsafePathChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// FilesystemStore writes report PDFs under a configured directory and builds
// locator URLs from the configured base URL.
type FilesystemStore struct {
	config common.FilesystemConfig
	logger arbor.ILogger
}

// NewFilesystemStore creates a filesystem-backed artifact store
func NewFilesystemStore(config common.FilesystemConfig, logger arbor.ILogger) (*FilesystemStore, error) {
	if config.Reports == "" {
		return nil, fmt.Errorf("reports directory is not configured")
	}
	if err := os.MkdirAll(config.Reports, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", config.Reports, err)
	}

	return &FilesystemStore{
		config: config,
		logger: logger,
	}, nil
}

// SavePDF writes the rendered report under
// <reports>/<sessionID>/<timestamp>_<company>_report.pdf and returns the
// locator URL. A write failure returns an empty locator and the error; the
// pipeline treats a missing locator as request failure.
func (s *FilesystemStore) SavePDF(ctx context.Context, sessionID, companyName string, generatedAt time.Time, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty report artifact")
	}

	sessionDir := filepath.Join(s.config.Reports, sanitizePathPart(sessionID))
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	fileName := fmt.Sprintf("%s_%s_report.pdf",
		generatedAt.UTC().Format("20060102T150405Z"),
		sanitizePathPart(companyName))
	path := filepath.Join(sessionDir, fileName)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report artifact: %w", err)
	}

	locator := strings.TrimRight(s.config.BaseURL, "/") + "/" + sanitizePathPart(sessionID) + "/" + fileName

	s.logger.Info().
		Str("session_id", sessionID).
		Str("path", path).
		Int("bytes", len(data)).
		Str("locator", locator).
		Msg("Stored report artifact")

	return locator, nil
}

// sanitizePathPart makes an identifier safe for use as a path and URL
// segment.
func sanitizePathPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = unsafePathChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}
