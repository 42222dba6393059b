package scraper

import (
	"strings"

	"github.com/ternarybob/conspectus/internal/models"
)

const (
	minCitationTitle = 10
	maxCitationTitle = 80
)

// Prefixes that carry navigation chrome rather than page identity.
var navPrefixes = []string{
	"Home | ",
	"Home - ",
	"Welcome to ",
}

// citationFromPage turns a scraped page into a citation candidate. Pages with
// short or missing titles, or with non-http URLs, are not citable.
func citationFromPage(title, url string) (models.WebCitation, bool) {
	title = strings.TrimSpace(title)
	for _, prefix := range navPrefixes {
		title = strings.TrimPrefix(title, prefix)
	}

	if len(title) < minCitationTitle || !strings.HasPrefix(url, "http") {
		return models.WebCitation{}, false
	}

	runes := []rune(title)
	if len(runes) > maxCitationTitle {
		title = string(runes[:maxCitationTitle])
	}

	return models.WebCitation{Name: title, URL: url}, true
}
