package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/conspectus/internal/models"
)

func TestKey_NormalizesCase(t *testing.T) {
	a := Key(&models.ReportRequest{CompanyName: "Acme Corp", CompanyURL: "https://ACME.example", Action: "generate_report"})
	b := Key(&models.ReportRequest{CompanyName: "acme corp", CompanyURL: "https://acme.example", Action: "generate_report"})
	assert.Equal(t, a, b)
}

func TestKey_ActionDistinguishes(t *testing.T) {
	a := Key(&models.ReportRequest{CompanyName: "Acme", Action: "generate_report"})
	b := Key(&models.ReportRequest{CompanyName: "Acme", Action: "regenerate"})
	assert.NotEqual(t, a, b)
}

func TestKey_PromptChangesKey(t *testing.T) {
	base := models.ReportRequest{CompanyName: "Acme", Action: "generate_report"}
	withPrompt := base
	withPrompt.CustomPrompt = "focus on logistics"

	assert.NotEqual(t, Key(&base), Key(&withPrompt))
}

func TestKey_FileOrderIrrelevant(t *testing.T) {
	fileA := models.UploadedFile{Name: "a.txt", Content: []byte("alpha")}
	fileB := models.UploadedFile{Name: "b.txt", Content: []byte("beta")}

	a := Key(&models.ReportRequest{CompanyName: "Acme", UploadedFiles: []models.UploadedFile{fileA, fileB}})
	b := Key(&models.ReportRequest{CompanyName: "Acme", UploadedFiles: []models.UploadedFile{fileB, fileA}})
	assert.Equal(t, a, b)
}

func TestKey_SelectedIDsOrderIrrelevant(t *testing.T) {
	a := Key(&models.ReportRequest{CompanyName: "Acme", SelectedUseCaseIDs: []string{"uc-2", "uc-1"}})
	b := Key(&models.ReportRequest{CompanyName: "Acme", SelectedUseCaseIDs: []string{"uc-1", "uc-2"}})
	assert.Equal(t, a, b)

	c := Key(&models.ReportRequest{CompanyName: "Acme", SelectedUseCaseIDs: []string{"uc-1"}})
	assert.NotEqual(t, a, c)
}

func TestUntilEndOfDay(t *testing.T) {
	now := time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, untilEndOfDay(now))

	early := time.Date(2026, 8, 25, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, 24*time.Hour-time.Second, untilEndOfDay(early))
}
