// Package scraper collects research material for a company from its public
// web presence: page text for prompt context and citation candidates for the
// report's source list.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

// Compile-time interface check
var _ interfaces.ScraperService = (*Service)(nil)

// Service fetches and flattens research pages
type Service struct {
	config common.ScraperConfig
	logger arbor.ILogger
	client *http.Client
}

// NewService creates a new scraper service
func NewService(config common.ScraperConfig, logger arbor.ILogger) *Service {
	return &Service{
		config: config,
		logger: logger,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Research fetches the company site and common subpages, returning flattened
// page text and citation candidates. A missing URL or failed fetches degrade
// to empty material; the pipeline can still produce a report from LLM
// knowledge alone.
func (s *Service) Research(ctx context.Context, companyName, companyURL string) (*models.ResearchMaterial, error) {
	material := &models.ResearchMaterial{}

	base := normalizeURL(companyURL)
	if base == "" {
		s.logger.Info().
			Str("company", companyName).
			Msg("No company URL provided, skipping web research")
		return material, nil
	}

	candidates := []string{base, base + "/about", base + "/products", base + "/services"}
	if s.config.MaxPages > 0 && len(candidates) > s.config.MaxPages {
		candidates = candidates[:s.config.MaxPages]
	}

	for i, pageURL := range candidates {
		if err := ctx.Err(); err != nil {
			return material, err
		}
		if i > 0 && s.config.RequestDelay > 0 {
			time.Sleep(s.config.RequestDelay)
		}

		page, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			s.logger.Debug().
				Err(err).
				Str("url", pageURL).
				Msg("Research page fetch failed, continuing")
			continue
		}

		material.Pages = append(material.Pages, *page)
		if citation, ok := citationFromPage(page.Title, page.URL); ok {
			material.Citations = append(material.Citations, citation)
		}
	}

	s.logger.Info().
		Str("company", companyName).
		Int("pages", len(material.Pages)).
		Int("citations", len(material.Citations)).
		Msg("Web research completed")

	return material, nil
}

func (s *Service) fetchPage(ctx context.Context, pageURL string) (*models.ScrapedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body := io.Reader(resp.Body)
	if s.config.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, int64(s.config.MaxBodySize))
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")

	// Drop boilerplate before conversion.
	doc.Find("script, style, nav, footer, header, iframe, noscript").Remove()

	html, err := doc.Find("body").First().Html()
	if err != nil || strings.TrimSpace(html) == "" {
		html, _ = doc.Html()
	}

	converter := md.NewConverter(pageURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return &models.ScrapedPage{
		URL:         pageURL,
		Title:       title,
		Description: strings.TrimSpace(description),
		Text:        flattenMarkdown([]byte(markdown)),
	}, nil
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimRight(raw, "/")
}
