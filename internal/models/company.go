package models

// CompanyProfile is the structured output of the research agent. Fields are
// validated after JSON extraction from the LLM response; only Name is hard
// required, everything else degrades to defaults.
type CompanyProfile struct {
	Name                   string   `json:"company_name" validate:"required"`
	Industry               string   `json:"industry"`
	BusinessModel          string   `json:"business_model"`
	CompanySize            string   `json:"company_size" validate:"omitempty,oneof=startup small medium large enterprise"`
	TechnologyStack        []string `json:"technology_stack"`
	CloudMaturity          string   `json:"cloud_maturity" validate:"omitempty,oneof=none basic intermediate advanced"`
	PrimaryChallenges      []string `json:"primary_challenges"`
	GrowthStage            string   `json:"growth_stage"`
	ComplianceRequirements []string `json:"compliance_requirements"`
}

// UseCase is one transformation opportunity produced by the use-case agent.
type UseCase struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title" validate:"required"`
	Category             string   `json:"category"`
	CurrentState         string   `json:"current_state" validate:"required"`
	ProposedSolution     string   `json:"proposed_solution" validate:"required"`
	PrimaryServices      []string `json:"primary_services"`
	BusinessValue        string   `json:"business_value"`
	ImplementationPhases []string `json:"implementation_phases"`
	TimelineMonths       int      `json:"timeline_months" validate:"omitempty,min=1,max=60"`
	MonthlyCostUSD       float64  `json:"monthly_cost_usd" validate:"omitempty,min=0"`
	Complexity           string   `json:"complexity" validate:"omitempty,oneof=low medium high"`
	Priority             string   `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	RiskLevel            string   `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	SuccessMetrics       []string `json:"success_metrics"`
}

// ResearchMaterial aggregates everything collected before the report prompt
// is assembled: scraped pages, citation candidates and text extracted from
// uploaded documents.
type ResearchMaterial struct {
	Pages     []ScrapedPage `json:"pages"`
	Citations []WebCitation `json:"citations"`
	FileTexts []string      `json:"file_texts,omitempty"`
}

// ScrapedPage is one fetched research page, flattened to plain text for
// prompt context.
type ScrapedPage struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
}

// WebCitation is a citation candidate harvested during scraping.
type WebCitation struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}
