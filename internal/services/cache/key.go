package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/conspectus/internal/models"
)

// Key derives the cache key for a report request: the md5 of a normalized
// payload. Company name and URL are lowercased, uploaded files contribute
// content hashes sorted for order independence, and selected use-case IDs are
// sorted the same way. Identical requests therefore hash identically no
// matter how the client ordered its inputs.
func Key(req *models.ReportRequest) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(req.CompanyName)),
		strings.ToLower(strings.TrimSpace(req.CompanyURL)),
		strings.TrimSpace(req.Action),
	}

	if prompt := strings.TrimSpace(req.CustomPrompt); prompt != "" {
		parts = append(parts, "prompt:"+hashString(prompt))
	}

	if len(req.UploadedFiles) > 0 {
		hashes := make([]string, 0, len(req.UploadedFiles))
		for _, f := range req.UploadedFiles {
			hashes = append(hashes, hashBytes(f.Content))
		}
		sort.Strings(hashes)
		parts = append(parts, "files:"+strings.Join(hashes, ","))
	}

	if len(req.SelectedUseCaseIDs) > 0 {
		ids := append([]string(nil), req.SelectedUseCaseIDs...)
		sort.Strings(ids)
		parts = append(parts, "selected:"+strings.Join(ids, ","))
	}

	return hashString(strings.Join(parts, "|"))
}

func hashString(s string) string {
	return hashBytes([]byte(s))
}

func hashBytes(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// shortKey is used in logs to keep lines readable.
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return fmt.Sprintf("%s...", key[:12])
}
