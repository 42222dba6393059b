package markup

import (
	"regexp"
	"strings"

	"github.com/ternarybob/conspectus/internal/models"
)

// maxDisplayName caps citation display names; FullName keeps the original.
const maxDisplayName = 50

// Only strictly adjacent name/url pairs form a citation. A lone
// citation_name or citation_url tag is not a citation and stays in the text
// verbatim.
var citationPattern = regexp.MustCompile(`(?is)<citation_name>(.*?)</citation_name><citation_url>(.*?)</citation_url>`)

// resolveCitations rewrites citation tag pairs in a block body into inline
// reference markers and registers each valid occurrence in the document-wide
// table. Numbering is monotonic across the whole document; duplicate URLs are
// never merged, each occurrence gets its own number. Pairs with an empty name
// or a URL not starting with "http" are removed from the text without a
// marker. Returns the rewritten body and the next unassigned number.
func resolveCitations(text string, table map[int]models.Citation, next int) (string, int) {
	matches := citationPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, next
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(text[last:m[0]])
		last = m[1]

		name := strings.TrimSpace(text[m[2]:m[3]])
		url := strings.TrimSpace(text[m[4]:m[5]])
		if name == "" || !strings.HasPrefix(url, "http") {
			continue
		}

		table[next] = models.Citation{
			Number:      next,
			DisplayName: truncateName(name),
			URL:         url,
			FullName:    name,
		}
		out.WriteString(models.CitationMarker(next, url))
		next++
	}
	out.WriteString(text[last:])

	return out.String(), next
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxDisplayName {
		return name
	}
	return string(runes[:maxDisplayName]) + "..."
}
