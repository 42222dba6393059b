package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
)

func TestSavePDF(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(common.FilesystemConfig{
		Reports: dir,
		BaseURL: "/reports",
	}, arbor.NewLogger())
	require.NoError(t, err)

	generatedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	locator, err := store.SavePDF(context.Background(), "session_abc123", "Acme Corp", generatedAt, []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "/reports/session_abc123/20260314T093000Z_acme_corp_report.pdf", locator)

	stored, err := os.ReadFile(filepath.Join(dir, "session_abc123", "20260314T093000Z_acme_corp_report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(stored))
}

func TestSavePDF_EmptyDataRejected(t *testing.T) {
	store, err := NewFilesystemStore(common.FilesystemConfig{
		Reports: t.TempDir(),
		BaseURL: "/reports",
	}, arbor.NewLogger())
	require.NoError(t, err)

	locator, err := store.SavePDF(context.Background(), "session_x", "Acme", time.Now(), nil)
	assert.Error(t, err)
	assert.Empty(t, locator)
}

func TestSanitizePathPart(t *testing.T) {
	assert.Equal(t, "acme_corp", sanitizePathPart("Acme Corp"))
	assert.Equal(t, "a.b-c", sanitizePathPart("a.b-c"))
	assert.Equal(t, "unnamed", sanitizePathPart("///"))
}
