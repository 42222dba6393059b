package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/handlers"
	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
	"github.com/ternarybob/conspectus/internal/services/artifacts"
	"github.com/ternarybob/conspectus/internal/services/cache"
	"github.com/ternarybob/conspectus/internal/services/fileparser"
	"github.com/ternarybob/conspectus/internal/services/llm"
	"github.com/ternarybob/conspectus/internal/services/markup"
	"github.com/ternarybob/conspectus/internal/services/render"
	"github.com/ternarybob/conspectus/internal/services/report"
	"github.com/ternarybob/conspectus/internal/services/research"
	"github.com/ternarybob/conspectus/internal/services/scraper"
	"github.com/ternarybob/conspectus/internal/services/session"
	"github.com/ternarybob/conspectus/internal/services/status"
	"github.com/ternarybob/conspectus/internal/services/usecase"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// LLM service shared by the pipeline agents. Nil when no provider is
	// configured; the pipeline then runs on the fallback generator.
	LLMService interfaces.LLMService

	// Pipeline services
	ScraperService  *scraper.Service
	FileParser      *fileparser.Service
	ResearchService *research.Service
	UseCaseService  *usecase.Service
	MarkupParser    *markup.Parser
	Fallback        *markup.Generator
	RenderService   *render.Service
	ArtifactStore   *artifacts.FilesystemStore
	CacheService    *cache.Service
	SessionService  *session.Service
	StatusService   *status.Service
	ReportService   *report.Service

	// HTTP handlers
	ReportHandler *handlers.ReportHandler
	StatusHandler *handlers.StatusHandler
	HealthHandler *handlers.HealthHandler
}

// New creates the application with all services wired. The storage manager is
// owned by the caller and closed after the app shuts down.
func New(cfg *common.Config, logger arbor.ILogger, storageManager interfaces.StorageManager) (*App, error) {
	a := &App{
		Config:         cfg,
		Logger:         logger,
		StorageManager: storageManager,
	}

	if err := a.initServices(); err != nil {
		return nil, err
	}
	a.initHandlers()

	return a, nil
}

func (a *App) initServices() error {
	if a.hasLLMKey() {
		llmService, err := llm.NewLLMService(a.Config, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize LLM service: %w", err)
		}
		a.LLMService = llmService
	} else {
		a.Logger.Warn().Msg("No LLM API key configured, reports will use the fallback generator")
	}

	a.ScraperService = scraper.NewService(a.Config.Scraper, a.Logger)
	a.FileParser = fileparser.NewService(a.Logger)

	if a.LLMService != nil {
		a.ResearchService = research.NewService(a.LLMService, a.Logger)
		a.UseCaseService = usecase.NewService(a.LLMService, a.Logger)
	}

	sources, err := a.loadFallbackSources()
	if err != nil {
		return err
	}

	a.MarkupParser = markup.NewParser(a.Logger)
	a.Fallback = markup.NewGenerator(a.Logger, sources)
	a.RenderService = render.NewService(a.Logger)

	store, err := artifacts.NewFilesystemStore(a.Config.Storage.Filesystem, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}
	a.ArtifactStore = store

	a.SessionService = session.NewService(a.Logger)
	a.StatusService = status.NewService(a.StorageManager.StatusStorage(), a.Logger)

	deps := report.Deps{
		Logger:     a.Logger,
		Scraper:    a.ScraperService,
		FileParser: a.FileParser,
		LLM:        a.LLMService,
		Parser:     a.MarkupParser,
		Fallback:   a.Fallback,
		Renderer:   a.RenderService,
		Artifacts:  a.ArtifactStore,
		Sessions:   a.SessionService,
		Status:     a.StatusService,
	}
	if a.ResearchService != nil {
		deps.Researcher = a.ResearchService
		deps.UseCases = a.UseCaseService
	} else {
		deps.Researcher = minimalProfiler{}
		deps.UseCases = noUseCases{}
	}

	if a.Config.Cache.Enabled {
		a.CacheService = cache.NewService(a.Config.Cache, a.StorageManager.CacheStorage(), a.Logger)
		deps.Cache = a.CacheService
	}

	a.ReportService = report.NewService(deps)

	return nil
}

func (a *App) initHandlers() {
	a.ReportHandler = handlers.NewReportHandler(a.ReportService, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.LLMService, a.Logger)
}

func (a *App) hasLLMKey() bool {
	switch a.Config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return a.Config.Claude.APIKey != ""
	case common.LLMProviderGemini:
		return a.Config.Gemini.APIKey != ""
	default:
		return false
	}
}

func (a *App) loadFallbackSources() ([]models.WebCitation, error) {
	path := a.Config.Reports.FallbackSourcesFile
	if path == "" {
		return nil, nil
	}
	sources, err := markup.LoadCitationSources(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback citation sources: %w", err)
	}
	a.Logger.Info().
		Int("sources", len(sources)).
		Str("file", path).
		Msg("Loaded fallback citation sources")
	return sources, nil
}

// Start begins background work: the cache sweep schedule.
func (a *App) Start() error {
	if a.CacheService != nil {
		if err := a.CacheService.Start(); err != nil {
			return fmt.Errorf("failed to start cache service: %w", err)
		}
	}
	return nil
}

// Shutdown stops background work and releases service resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.CacheService != nil {
		a.CacheService.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	return nil
}

// minimalProfiler stands in for the research agent when no LLM is configured.
type minimalProfiler struct{}

func (minimalProfiler) Profile(ctx context.Context, companyName string, material *models.ResearchMaterial, customPrompt string) (*models.CompanyProfile, error) {
	return &models.CompanyProfile{Name: companyName}, nil
}

// noUseCases stands in for the use-case agent when no LLM is configured.
type noUseCases struct{}

func (noUseCases) Generate(ctx context.Context, profile *models.CompanyProfile) ([]models.UseCase, error) {
	return nil, nil
}
