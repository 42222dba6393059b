// Package fileparser extracts plain text from user-uploaded documents so the
// research prompt can include them as context.
package fileparser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

// Compile-time interface check
var _ interfaces.FileParser = (*Service)(nil)

// Service extracts text from uploaded files. PDFs go through pdfcpu; plain
// text formats are passed through as-is.
type Service struct {
	logger  arbor.ILogger
	tempDir string
}

// NewService creates a new file parser service
func NewService(logger arbor.ILogger) *Service {
	tempDir := filepath.Join(os.TempDir(), "conspectus-files")
	_ = os.MkdirAll(tempDir, 0755)

	return &Service{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts the text content of one uploaded file. Unsupported
// formats return an error; the caller decides whether that fails the request
// or just drops the file from the prompt context.
func (s *Service) ExtractText(ctx context.Context, file models.UploadedFile) (string, error) {
	if len(file.Content) == 0 {
		return "", fmt.Errorf("uploaded file %s is empty", file.Name)
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	switch ext {
	case ".pdf":
		return s.extractPDFText(ctx, file)
	case ".txt", ".md", ".csv":
		return string(file.Content), nil
	default:
		return "", fmt.Errorf("unsupported file type %q for %s", ext, file.Name)
	}
}

// extractPDFText writes the upload to a temp file and extracts per-page
// content with pdfcpu, concatenated with page separators.
func (s *Service) extractPDFText(ctx context.Context, file models.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tempFile := filepath.Join(s.tempDir, fmt.Sprintf("upload_%s.pdf", uuid.New().String()))
	if err := os.WriteFile(tempFile, file.Content, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", file.Name, err)
	}
	pageCount := pdfCtx.PageCount

	outDir := tempFile + ".pages"
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract content from %s: %w", file.Name, err)
	}

	pageTexts := make(map[int]string)
	entries, _ := os.ReadDir(outDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(entry.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString(fmt.Sprintf("\n\n--- Page %d ---\n\n", pageNum))
		}
		fullText.WriteString(text)
	}

	s.logger.Debug().
		Str("file", file.Name).
		Int("pages", pageCount).
		Int("text_length", fullText.Len()).
		Msg("Extracted text from uploaded PDF")

	return fullText.String(), nil
}
