package models

import "fmt"

// Renderer-neutral inline markers embedded in ContentBlock.Text by the
// parser. The renderer tokenizes on these instead of the raw markup tags, so
// the parsed model carries no trace of the source vocabulary.
const (
	BoldOpen       = "[[b]]"
	BoldClose      = "[[/b]]"
	ItalicOpen     = "[[i]]"
	ItalicClose    = "[[/i]]"
	UnderlineOpen  = "[[u]]"
	UnderlineClose = "[[/u]]"

	// BulletGlyph prefixes each bullet item inside a list block's text.
	BulletGlyph = "• "
)

// CitationMarker builds the inline reference marker for a resolved citation.
// It carries both the number and the target URL so the renderer can emit a
// clickable numeral without consulting the citation table.
func CitationMarker(number int, url string) string {
	return fmt.Sprintf("[[cite:%d|%s]]", number, url)
}
