// Package report orchestrates the full generation pipeline: research
// collection, profile and use-case agents, markup generation with its quality
// gate and fallback, PDF rendering and artifact persistence. Checkpoints are
// recorded throughout so clients can poll progress.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
	"github.com/ternarybob/conspectus/internal/services/markup"
	"github.com/ternarybob/conspectus/internal/services/session"
	"github.com/ternarybob/conspectus/internal/services/status"
	"github.com/ternarybob/conspectus/internal/services/usecase"
)

// runTimeout bounds one full pipeline run, LLM calls included.
const runTimeout = 10 * time.Minute

// Profiler produces a company profile from research material.
type Profiler interface {
	Profile(ctx context.Context, companyName string, material *models.ResearchMaterial, customPrompt string) (*models.CompanyProfile, error)
}

// UseCaseGenerator proposes transformation use cases for a profile.
type UseCaseGenerator interface {
	Generate(ctx context.Context, profile *models.CompanyProfile) ([]models.UseCase, error)
}

// Renderer turns a parsed document model into PDF bytes.
type Renderer interface {
	Render(model models.DocumentModel, subjectName string) ([]byte, error)
}

// ResultCache short-circuits repeat requests within the cache window.
type ResultCache interface {
	Get(ctx context.Context, req *models.ReportRequest) (*models.ReportResult, bool)
	Put(ctx context.Context, req *models.ReportRequest, result *models.ReportResult) error
}

// Service runs the report pipeline.
type Service struct {
	logger     arbor.ILogger
	scraper    interfaces.ScraperService
	fileParser interfaces.FileParser
	llm        interfaces.LLMService
	researcher Profiler
	useCases   UseCaseGenerator
	parser     *markup.Parser
	fallback   *markup.Generator
	renderer   Renderer
	artifacts  interfaces.ArtifactStore
	cache      ResultCache
	sessions   *session.Service
	status     *status.Service
}

// Deps carries the pipeline's collaborators. Scraper, FileParser, LLM and
// Cache may be nil; the pipeline degrades without them.
type Deps struct {
	Logger     arbor.ILogger
	Scraper    interfaces.ScraperService
	FileParser interfaces.FileParser
	LLM        interfaces.LLMService
	Researcher Profiler
	UseCases   UseCaseGenerator
	Parser     *markup.Parser
	Fallback   *markup.Generator
	Renderer   Renderer
	Artifacts  interfaces.ArtifactStore
	Cache      ResultCache
	Sessions   *session.Service
	Status     *status.Service
}

func NewService(deps Deps) *Service {
	return &Service{
		logger:     deps.Logger,
		scraper:    deps.Scraper,
		fileParser: deps.FileParser,
		llm:        deps.LLM,
		researcher: deps.Researcher,
		useCases:   deps.UseCases,
		parser:     deps.Parser,
		fallback:   deps.Fallback,
		renderer:   deps.Renderer,
		artifacts:  deps.Artifacts,
		cache:      deps.Cache,
		sessions:   deps.Sessions,
		status:     deps.Status,
	}
}

// StartOutcome is the immediate answer to a report request: a cached result,
// an already-running session, or a freshly started one.
type StartOutcome struct {
	SessionID      string
	Result         *models.ReportResult
	FromCache      bool
	AlreadyRunning bool
}

// Start answers a report request. Cached results return immediately; a
// duplicate request for a company already being processed returns the running
// session's ID; otherwise a new session starts and the pipeline runs in the
// background.
func (s *Service) Start(ctx context.Context, req *models.ReportRequest) (*StartOutcome, error) {
	if req == nil || req.CompanyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	if s.cache != nil {
		if result, found := s.cache.Get(ctx, req); found {
			result.FromCache = true
			return &StartOutcome{SessionID: result.SessionID, Result: result, FromCache: true}, nil
		}
	}

	key := session.Key(req.CompanyName, req.Action)
	sessionID := common.NewSessionID()

	started, existingID := s.sessions.Start(key, sessionID)
	if !started {
		s.logger.Info().
			Str("company", req.CompanyName).
			Str("session_id", existingID).
			Msg("Report already in progress, returning existing session")
		return &StartOutcome{SessionID: existingID, AlreadyRunning: true}, nil
	}

	if err := s.status.Begin(ctx, sessionID, req.CompanyName); err != nil {
		s.sessions.Complete(key)
		return nil, err
	}

	go s.run(sessionID, key, req)

	return &StartOutcome{SessionID: sessionID}, nil
}

// run executes the pipeline detached from the request context and records the
// terminal state.
func (s *Service) run(sessionID, sessionKey string, req *models.ReportRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	defer s.sessions.Complete(sessionKey)

	result, err := s.Execute(ctx, sessionID, req)
	if err != nil {
		s.status.Fail(ctx, sessionID, err)
		return
	}

	s.status.Complete(ctx, sessionID, result.Locator, result.UsedFallback)

	if s.cache != nil {
		if err := s.cache.Put(ctx, req, result); err != nil {
			s.logger.Warn().Err(err).
				Str("session_id", sessionID).
				Msg("Failed to cache report result")
		}
	}
}

// Execute runs the pipeline synchronously for one session. Research, profile
// and use-case failures degrade; only rendering and artifact persistence are
// fatal, since without a stored PDF there is nothing to hand back.
func (s *Service) Execute(ctx context.Context, sessionID string, req *models.ReportRequest) (*models.ReportResult, error) {
	material := s.collectMaterial(ctx, sessionID, req)

	s.status.Checkpoint(ctx, sessionID, models.CheckpointResearchStarted, "")
	profile, err := s.researcher.Profile(ctx, req.CompanyName, material, req.CustomPrompt)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Msg("Company research failed, continuing with minimal profile")
		profile = &models.CompanyProfile{Name: req.CompanyName}
	}
	s.status.Checkpoint(ctx, sessionID, models.CheckpointResearchCompleted, profile.Industry)

	s.status.Checkpoint(ctx, sessionID, models.CheckpointUseCasesStarted, "")
	useCases, err := s.useCases.Generate(ctx, profile)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Msg("Use case generation failed, continuing without use cases")
		useCases = nil
	}
	useCases = usecase.Filter(useCases, req.SelectedUseCaseIDs)
	s.status.Checkpoint(ctx, sessionID, models.CheckpointUseCasesCompleted, fmt.Sprintf("%d use cases", len(useCases)))

	s.status.Checkpoint(ctx, sessionID, models.CheckpointReportStarted, "")
	raw, usedFallback := s.generateMarkup(ctx, sessionID, profile, useCases, material.Citations)

	result := s.parser.Parse(raw)
	if result.Empty {
		s.logger.Warn().
			Str("session_id", sessionID).
			Msg("Report markup produced no blocks, switching to fallback")
		raw = s.fallback.Generate(*profile, useCases, material.Citations)
		usedFallback = true
		result = s.parser.Parse(raw)
		if result.Empty {
			return nil, fmt.Errorf("fallback report produced no parseable content")
		}
	}
	s.status.Checkpoint(ctx, sessionID, models.CheckpointReportCompleted, "")

	pdfData, err := s.renderer.Render(result.Model, profile.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	locator, err := s.artifacts.SavePDF(ctx, sessionID, profile.Name, time.Now().UTC(), pdfData)
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	if locator == "" {
		return nil, fmt.Errorf("artifact store returned no report locator")
	}

	return &models.ReportResult{
		SessionID:    sessionID,
		Company:      profile,
		UseCases:     useCases,
		Locator:      locator,
		UsedFallback: usedFallback,
	}, nil
}

// collectMaterial gathers scraped pages and uploaded document text. Both
// sources are best effort.
func (s *Service) collectMaterial(ctx context.Context, sessionID string, req *models.ReportRequest) *models.ResearchMaterial {
	s.status.Checkpoint(ctx, sessionID, models.CheckpointScrapingStarted, req.CompanyURL)

	material := &models.ResearchMaterial{}
	if s.scraper != nil && req.CompanyURL != "" {
		scraped, err := s.scraper.Research(ctx, req.CompanyName, req.CompanyURL)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("session_id", sessionID).
				Str("url", req.CompanyURL).
				Msg("Web research failed, continuing without scraped material")
		} else {
			material = scraped
		}
	}

	if s.fileParser != nil {
		for _, file := range req.UploadedFiles {
			text, err := s.fileParser.ExtractText(ctx, file)
			if err != nil {
				s.logger.Warn().Err(err).
					Str("session_id", sessionID).
					Str("file", file.Name).
					Msg("Skipping unreadable uploaded file")
				continue
			}
			material.FileTexts = append(material.FileTexts, text)
		}
	}

	return material
}

// generateMarkup asks the LLM for the report markup and applies the quality
// gate. Any failure switches to the deterministic fallback generator, which
// reuses the citations gathered during this run.
func (s *Service) generateMarkup(ctx context.Context, sessionID string, profile *models.CompanyProfile, useCases []models.UseCase, citations []models.WebCitation) (string, bool) {
	if s.llm == nil {
		return s.fallback.Generate(*profile, useCases, citations), true
	}

	raw, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(profile, useCases, citations)},
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Msg("Report completion failed, using fallback report")
		return s.fallback.Generate(*profile, useCases, citations), true
	}

	if markup.IsIncomplete(raw) {
		s.logger.Warn().
			Str("session_id", sessionID).
			Int("length", len(raw)).
			Msg("Report failed quality gate, using fallback report")
		return s.fallback.Generate(*profile, useCases, citations), true
	}

	return raw, false
}
