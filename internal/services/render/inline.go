package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/conspectus/internal/models"
)

const baseFont = "Helvetica"

var (
	emphasisMarker   = regexp.MustCompile(`\[\[(/?)([biu])\]\]`)
	citationMarker   = regexp.MustCompile(`\[\[cite:(\d+)\|([^\]]*)\]\]`)
	inlineMarker     = regexp.MustCompile(`\[\[(?:/?[biu]|cite:\d+\|[^\]]*)\]\]`)
	numberedPrefixRe = regexp.MustCompile(`\d+\.\s*`)
)

// writer wraps the fpdf document with inline marker handling. The cp1252
// translator maps the bullet glyph and other non-ASCII text into the core
// font encoding.
type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string

	bold      bool
	italic    bool
	underline bool
}

func (w *writer) applyFont(st style) {
	styleStr := ""
	if st.bold || w.bold {
		styleStr += "B"
	}
	if w.italic {
		styleStr += "I"
	}
	if w.underline {
		styleStr += "U"
	}
	w.pdf.SetFont(baseFont, styleStr, st.size)
}

// writeBlockText writes one block of marker-bearing text with the given base
// style, handling emphasis toggles and inline citation links.
func (w *writer) writeBlockText(text string, st style) {
	if st.spaceBefore > 0 {
		w.pdf.Ln(st.spaceBefore)
	}
	w.writeInline(text, st)
	w.pdf.Ln(lineHeight)
	if st.spaceAfter > 0 {
		w.pdf.Ln(st.spaceAfter)
	}
}

// writeListItem writes one indented bulleted line.
func (w *writer) writeListItem(text string, st style) {
	w.pdf.SetX(pageLeftMargin + listIndent)
	w.applyFont(st)
	w.pdf.Write(lineHeight, w.tr(models.BulletGlyph))
	w.writeInline(text, st)
	w.pdf.Ln(lineHeight)
}

// writeInline walks the text segment by segment, toggling emphasis state at
// markers and emitting citation numerals as links. Emphasis state is reset at
// the end of every call so an unclosed marker cannot leak across blocks.
func (w *writer) writeInline(text string, st style) {
	defer func() {
		w.bold, w.italic, w.underline = false, false, false
	}()

	locs := inlineMarker.FindAllStringIndex(text, -1)
	last := 0
	for _, loc := range locs {
		if seg := text[last:loc[0]]; seg != "" {
			w.applyFont(st)
			w.pdf.Write(lineHeight, w.tr(seg))
		}
		last = loc[1]

		marker := text[loc[0]:loc[1]]
		if m := emphasisMarker.FindStringSubmatch(marker); m != nil {
			on := m[1] != "/"
			switch m[2] {
			case "b":
				w.bold = on
			case "i":
				w.italic = on
			case "u":
				w.underline = on
			}
			continue
		}
		if m := citationMarker.FindStringSubmatch(marker); m != nil {
			w.writeCitationLink(m[1], m[2], st)
		}
	}
	if seg := text[last:]; seg != "" {
		w.applyFont(st)
		w.pdf.Write(lineHeight, w.tr(seg))
	}
}

// writeCitationLink emits a small clickable bracketed numeral.
func (w *writer) writeCitationLink(number, url string, st style) {
	w.pdf.SetFont(baseFont, "", 7)
	w.pdf.SetTextColor(0, 0, 238)
	w.pdf.WriteLinkString(lineHeight, "["+number+"]", url)
	w.pdf.SetTextColor(0, 0, 0)
	w.applyFont(st)
}

// writeCitationEntry emits one line of the trailing citation index: the
// number followed by the full source name as a clickable link.
func (w *writer) writeCitationEntry(c models.Citation) {
	w.pdf.SetFont(baseFont, "", 9)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Write(lineHeight, fmt.Sprintf("[%d] ", c.Number))
	w.pdf.SetFont(baseFont, "U", 9)
	w.pdf.SetTextColor(0, 0, 238)
	w.pdf.WriteLinkString(lineHeight, w.tr(c.FullName), c.URL)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(lineHeight)
}

// rule draws a full-width horizontal line at the current position.
func (w *writer) rule() {
	pageWidth, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY() + 1
	w.pdf.SetDrawColor(120, 120, 120)
	w.pdf.Line(pageLeftMargin, y, pageWidth-pageRightMargin, y)
	w.pdf.Ln(3)
}

// splitNumberedFragments cuts a list fragment on "N." prefixes left over from
// numbered items that reached the renderer inside a single line. Text before
// the first prefix is kept as its own fragment.
func splitNumberedFragments(s string) []string {
	locs := numberedPrefixRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return []string{s}
	}

	var parts []string
	if head := strings.TrimSpace(s[:locs[0][0]]); head != "" {
		parts = append(parts, head)
	}
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if frag := strings.TrimSpace(s[loc[1]:end]); frag != "" {
			parts = append(parts, frag)
		}
	}
	return parts
}
