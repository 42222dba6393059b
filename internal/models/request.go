package models

// ReportRequest is the inbound request to generate a company report.
type ReportRequest struct {
	CompanyName        string         `json:"company_name" validate:"required"`
	CompanyURL         string         `json:"company_url" validate:"omitempty,url"`
	Action             string         `json:"action"` // e.g. "generate_report"; part of the cache key
	CustomPrompt       string         `json:"custom_prompt,omitempty"`
	UploadedFiles      []UploadedFile `json:"uploaded_files,omitempty"`
	SelectedUseCaseIDs []string       `json:"selected_use_case_ids,omitempty"`
}

// UploadedFile carries one user-supplied document to enrich the research
// prompt. Content is the raw file body (base64-decoded by the handler).
type UploadedFile struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ReportResult is the terminal outcome of a pipeline run.
type ReportResult struct {
	SessionID    string          `json:"session_id"`
	Company      *CompanyProfile `json:"company,omitempty"`
	UseCases     []UseCase       `json:"use_cases,omitempty"`
	Locator      string          `json:"report_url"`
	UsedFallback bool            `json:"used_fallback"`
	FromCache    bool            `json:"from_cache"`
}
