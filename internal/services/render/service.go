// Package render turns a parsed DocumentModel into a paginated PDF. The
// typographic hierarchy is fixed: heading sizes strictly decrease from the
// title down to body text, so document structure survives even when the
// markup nesting was malformed.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/models"
)

const (
	pageLeftMargin  = 15.0
	pageTopMargin   = 20.0
	pageRightMargin = 15.0
	bottomMargin    = 20.0
	lineHeight      = 5.5
	listIndent      = 5.0
)

type style struct {
	size        float64
	bold        bool
	spaceBefore float64
	spaceAfter  float64
}

// Heading sizes must stay strictly decreasing top-down; the renderer relies
// on size alone to convey hierarchy.
var (
	titleStyle      = style{size: 18, bold: true, spaceBefore: 0, spaceAfter: 4}
	majorStyle      = style{size: 15, bold: true, spaceBefore: 5, spaceAfter: 3}
	subBoldStyle    = style{size: 13, bold: true, spaceBefore: 4, spaceAfter: 2}
	subPlainStyle   = style{size: 12, bold: false, spaceBefore: 3, spaceAfter: 2}
	bodyStyle       = style{size: 10, bold: false, spaceBefore: 1, spaceAfter: 2}
	citationHdStyle = style{size: 13, bold: true, spaceBefore: 6, spaceAfter: 3}
)

// Service renders parsed report documents to PDF
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new document renderer
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Render produces the PDF bytes for a parsed document. subjectName is used
// for the default title when the document has none. Any emission error aborts
// the whole render; no partial output is ever returned.
func (s *Service) Render(model models.DocumentModel, subjectName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageRightMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.AddPage()

	w := &writer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	title := strings.TrimSpace(model.Title)
	if title == "" {
		title = fmt.Sprintf("Transformation Report for %s", subjectName)
	}
	w.writeBlockText(title, titleStyle)
	w.rule()

	for _, block := range model.Blocks {
		if pdf.Err() {
			break
		}
		s.emitBlock(w, block)
	}

	s.emitCitationIndex(w, model.Citations)

	if pdf.Err() {
		err := pdf.Error()
		s.logger.Error().
			Err(err).
			Str("subject", subjectName).
			Msg("PDF rendering failed, discarding partial output")
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}

	s.logger.Info().
		Int("bytes", buf.Len()).
		Int("blocks", len(model.Blocks)).
		Int("citations", len(model.Citations)).
		Msg("Rendered report PDF")

	return buf.Bytes(), nil
}

func (s *Service) emitBlock(w *writer, block models.ContentBlock) {
	if strings.TrimSpace(block.Text) == "" {
		return
	}

	switch block.Kind {
	case models.BlockTitle, models.BlockMajorHeading:
		w.writeBlockText(block.Text, majorStyle)
	case models.BlockSubHeading:
		w.writeBlockText(block.Text, subBoldStyle)
	case models.BlockSubHeadingPlain:
		w.writeBlockText(block.Text, subPlainStyle)
	case models.BlockList:
		s.emitList(w, block.Text)
	default:
		// content, section, paragraph and table bodies all render as body
		// text; unresolved tags inside them come out as literal text.
		w.writeBlockText(block.Text, bodyStyle)
	}
}

// emitList splits a list body into items twice: first on the bullet glyph
// the parser inserted, then each fragment again on leftover "N." numbered
// prefixes the model carried through. Every fragment becomes one indented
// bulleted line.
func (s *Service) emitList(w *writer, text string) {
	var items []string
	for _, frag := range strings.Split(text, strings.TrimSpace(models.BulletGlyph)) {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		for _, item := range splitNumberedFragments(frag) {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}

	for _, item := range items {
		w.writeListItem(item, bodyStyle)
	}
	w.pdf.Ln(bodyStyle.spaceAfter)
}

// emitCitationIndex appends the trailing "Citation Sources" section with one
// clickable entry per citation, in ascending number order, labeled by the
// full untruncated source name.
func (s *Service) emitCitationIndex(w *writer, citations map[int]models.Citation) {
	if len(citations) == 0 {
		return
	}

	numbers := make([]int, 0, len(citations))
	for n := range citations {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	w.rule()
	w.writeBlockText("Citation Sources", citationHdStyle)

	for _, n := range numbers {
		if w.pdf.Err() {
			return
		}
		w.writeCitationEntry(citations[n])
	}
}
