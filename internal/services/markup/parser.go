// Package markup parses the pseudo-XML report vocabulary produced by the LLM
// report agent into a renderable document model. The dialect is not XML: tags
// may be unbalanced, interleaved or truncated, and the parser must recover
// whatever structure is present instead of rejecting the input.
package markup

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/conspectus/internal/models"
)

var (
	anyTagPattern = regexp.MustCompile(`<[^>]+>`)
	titlePattern  = regexp.MustCompile(`(?s)<heading_bold>(.*?)</heading_bold>`)
)

type blockTag struct {
	kind models.BlockKind
	re   *regexp.Regexp
}

func blockPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + name + `>(.*?)</` + name + `>`)
}

// blockTags is the structural scan table. Each tag is scanned independently
// over the whole text and the matches are merged by source offset, so a
// missing or unbalanced tag never hides the others.
var blockTags = []blockTag{
	{models.BlockContent, blockPattern("content")},
	{models.BlockSubHeading, blockPattern("sub-heading-bold")},
	{models.BlockSubHeadingPlain, blockPattern("sub-heading")},
	{models.BlockSection, blockPattern("section")},
	{models.BlockParagraph, blockPattern("paragraph")},
	{models.BlockList, blockPattern("list")},
	{models.BlockTable, blockPattern("table")},
}

// Parser converts raw report markup into a DocumentModel. Parse never fails:
// malformed input degrades to whatever blocks can be recovered.
type Parser struct {
	logger arbor.ILogger
}

// NewParser creates a markup parser
func NewParser(logger arbor.ILogger) *Parser {
	return &Parser{logger: logger}
}

type candidate struct {
	kind   models.BlockKind
	inner  string
	offset int
}

// Parse extracts the document title, structural blocks, citations and inline
// formatting from raw markup text. The result is Empty only when the input
// contains no tags at all.
func (p *Parser) Parse(raw string) models.ParseResult {
	text := strings.TrimSpace(raw)

	loc := anyTagPattern.FindStringIndex(text)
	if loc == nil {
		p.logger.Warn().
			Int("length", len(raw)).
			Msg("No markup tags found in report text")
		return models.ParseResult{Empty: true}
	}

	// Anything before the first tag is LLM commentary, not report content.
	text = text[loc[0]:]

	model := models.DocumentModel{
		Citations: make(map[int]models.Citation),
	}

	if m := titlePattern.FindStringSubmatch(text); m != nil {
		model.Title = strings.TrimSpace(m[1])
	} else {
		p.logger.Debug().Msg("Report markup has no heading_bold title")
	}

	var candidates []candidate
	for _, bt := range blockTags {
		for _, idx := range bt.re.FindAllStringSubmatchIndex(text, -1) {
			candidates = append(candidates, candidate{
				kind:   bt.kind,
				inner:  strings.TrimSpace(text[idx[2]:idx[3]]),
				offset: idx[0],
			})
		}
	}

	// Stable sort preserves scan-table order for blocks opening at the same
	// offset, keeping output deterministic for identical input.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].offset < candidates[j].offset
	})

	nextCitation := 1
	for _, c := range candidates {
		body, next := resolveCitations(c.inner, model.Citations, nextCitation)
		nextCitation = next
		body = applyFormatting(body)
		model.Blocks = append(model.Blocks, models.ContentBlock{
			Kind:         c.kind,
			Text:         strings.TrimSpace(body),
			SourceOffset: c.offset,
		})
	}

	p.logger.Debug().
		Int("blocks", len(model.Blocks)).
		Int("citations", len(model.Citations)).
		Str("title", model.Title).
		Msg("Parsed report markup")

	return models.ParseResult{Model: model}
}
