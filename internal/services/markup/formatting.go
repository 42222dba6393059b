package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/conspectus/internal/models"
)

var (
	boldPattern      = regexp.MustCompile(`(?is)<bold>(.*?)</bold>`)
	italicPattern    = regexp.MustCompile(`(?is)<italic>(.*?)</italic>`)
	underlinePattern = regexp.MustCompile(`(?is)<underline>(.*?)</underline>`)
	bulletPattern    = regexp.MustCompile(`(?is)<bullet>(.*?)</bullet>`)
	numberPattern    = regexp.MustCompile(`(?is)<number>(.*?)</number>`)
	listWrapPattern  = regexp.MustCompile(`(?i)</?list>`)
)

// applyFormatting rewrites inline formatting tags into renderer-neutral
// markers. Only matched pairs are rewritten; a mismatched pair such as
// <bold>text</italic> is left verbatim and reaches the reader as literal
// text. Numbered items are renumbered sequentially from 1 within each block;
// list container tags are unwrapped, their items stand on their own.
func applyFormatting(text string) string {
	text = boldPattern.ReplaceAllString(text, models.BoldOpen+"${1}"+models.BoldClose)
	text = italicPattern.ReplaceAllString(text, models.ItalicOpen+"${1}"+models.ItalicClose)
	text = underlinePattern.ReplaceAllString(text, models.UnderlineOpen+"${1}"+models.UnderlineClose)

	text = bulletPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := bulletPattern.FindStringSubmatch(m)[1]
		return models.BulletGlyph + strings.TrimSpace(inner) + "\n"
	})

	counter := 0
	text = numberPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := numberPattern.FindStringSubmatch(m)[1]
		counter++
		return fmt.Sprintf("%d. %s\n", counter, strings.TrimSpace(inner))
	})

	return listWrapPattern.ReplaceAllString(text, "")
}
