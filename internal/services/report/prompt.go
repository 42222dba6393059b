package report

import (
	"fmt"
	"strings"

	"github.com/ternarybob/conspectus/internal/models"
)

const systemPrompt = `You are a senior consultant writing a digital transformation report.
Write the full report using ONLY this markup vocabulary, no markdown and no other tags:
  <heading_bold>...</heading_bold>        document title (exactly one, first)
  <content>...</content>                  major section heading
  <sub-heading-bold>...</sub-heading-bold> numbered sub-section heading
  <sub-heading>...</sub-heading>          plain sub-section heading
  <section>...</section>                  grouped body section
  <paragraph>...</paragraph>              body paragraph
  <list>...</list>                        list container
  <table>...</table>                      tabular data
Inside text you may use <bold>, <italic>, <underline>, <bullet> for list items
and <number> for numbered items.
Cite sources inline as <citation_name>NAME</citation_name><citation_url>URL</citation_url>
with the two tags immediately adjacent.
The report must be thorough (well over a thousand characters), must not repeat
itself, and must end with a closing </paragraph> tag.`

// buildPrompt assembles the report request from the profile, the selected use
// cases and the citation candidates gathered during research.
func buildPrompt(profile *models.CompanyProfile, useCases []models.UseCase, citations []models.WebCitation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a transformation report for %s.\n\n", profile.Name)

	b.WriteString("## Company profile\n\n")
	if profile.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	}
	if profile.BusinessModel != "" {
		fmt.Fprintf(&b, "Business model: %s\n", profile.BusinessModel)
	}
	if profile.CompanySize != "" {
		fmt.Fprintf(&b, "Company size: %s\n", profile.CompanySize)
	}
	if profile.CloudMaturity != "" {
		fmt.Fprintf(&b, "Cloud maturity: %s\n", profile.CloudMaturity)
	}
	if len(profile.TechnologyStack) > 0 {
		fmt.Fprintf(&b, "Technology stack: %s\n", strings.Join(profile.TechnologyStack, ", "))
	}
	if len(profile.PrimaryChallenges) > 0 {
		fmt.Fprintf(&b, "Primary challenges: %s\n", strings.Join(profile.PrimaryChallenges, ", "))
	}
	if len(profile.ComplianceRequirements) > 0 {
		fmt.Fprintf(&b, "Compliance requirements: %s\n", strings.Join(profile.ComplianceRequirements, ", "))
	}

	if len(useCases) > 0 {
		b.WriteString("\n## Use cases to cover\n\n")
		for i, uc := range useCases {
			fmt.Fprintf(&b, "%d. %s\n", i+1, uc.Title)
			fmt.Fprintf(&b, "   Current state: %s\n", uc.CurrentState)
			fmt.Fprintf(&b, "   Proposed solution: %s\n", uc.ProposedSolution)
			if uc.BusinessValue != "" {
				fmt.Fprintf(&b, "   Business value: %s\n", uc.BusinessValue)
			}
			if uc.TimelineMonths > 0 {
				fmt.Fprintf(&b, "   Timeline: %d months\n", uc.TimelineMonths)
			}
		}
	}

	if len(citations) > 0 {
		b.WriteString("\n## Citation sources you may use\n\n")
		for _, c := range citations {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.URL)
		}
	}

	return b.String()
}
