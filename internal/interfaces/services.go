package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/conspectus/internal/models"
)

// ArtifactStore persists rendered report artifacts and returns a locator URL
// the caller can hand back to the client. Implementations are injected; the
// pipeline never talks to a concrete backend directly.
type ArtifactStore interface {
	SavePDF(ctx context.Context, sessionID, companyName string, generatedAt time.Time, data []byte) (string, error)
}

// ScraperService collects research material for a company from the web
type ScraperService interface {
	Research(ctx context.Context, companyName, companyURL string) (*models.ResearchMaterial, error)
}

// FileParser extracts plain text from uploaded documents
type FileParser interface {
	ExtractText(ctx context.Context, file models.UploadedFile) (string, error)
}
