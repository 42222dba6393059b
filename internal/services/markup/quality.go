package markup

import (
	"strings"
)

const (
	minReportLength    = 1000
	minUniqueLineRatio = 0.7
	truncationWindow   = 1000
)

// IsIncomplete reports whether raw report text looks truncated or repetitive
// and should be replaced by the fallback document before parsing. A report is
// rejected when it is shorter than 1000 characters, when fewer than 70% of
// its lines are unique (every line counts, blank lines included, so heavy
// blank-line padding reads as repetition), when it does not end on a closing
// paragraph or content tag, or when a "..." truncation marker appears within
// the final 1000 characters.
func IsIncomplete(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minReportLength {
		return true
	}

	lines := strings.Split(trimmed, "\n")
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		seen[line] = struct{}{}
	}
	if len(lines) > 0 && float64(len(seen))/float64(len(lines)) < minUniqueLineRatio {
		return true
	}

	if !strings.HasSuffix(trimmed, "</paragraph>") && !strings.HasSuffix(trimmed, "</content>") {
		return true
	}

	tail := trimmed
	if len(tail) > truncationWindow {
		tail = tail[len(tail)-truncationWindow:]
	}
	return strings.Contains(tail, "...")
}
