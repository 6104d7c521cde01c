package research

import (
	"fmt"
	"strings"

	"github.com/contactsmith/contactsmith/internal/models"
	"github.com/contactsmith/contactsmith/pkg/whois"
)

// BuildPrompt renders the multi-source research request for one company.
// The model is asked for a fixed markdown table so the reply can be
// parsed back into contact rows.
func BuildPrompt(company models.Company) string {
	domain := whois.NormalizeDomain(company.Website)
	industry := company.Industry
	if industry == "" {
		industry = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional business research assistant.

PRIMARY TASK: Find current, publicly available contact information for executives and key personnel at %s (website: %s), located in %s. Industry: %s.

SEARCH STRATEGY:
1. Company website: check %s/contact, %s/about, %s/team, %s/impressum (for German sites); look for leadership pages, staff directories, office locations.
2. Professional networks: current employees at "%s" on LinkedIn; Xing profiles for German companies. Focus on C-level executives, directors, department heads, HR managers.
3. Business directories: registries, chamber of commerce listings, industry directories.
4. Press releases and news: recent articles naming company executives or spokespeople.

OUTPUT REQUIREMENTS:
Return a markdown table with exactly these columns:
| Name | Role | Profile URL | Email | Phone | Source | Confidence |

Email guidelines:
- Use confirmed emails when found; mark pattern-based guesses "(estimated)".
- Include general company emails (info@, contact@, office@).
- For German companies, check the Impressum page (legally required contact info).

Confidence levels: High (confirmed from official sources), Medium (reliable business directories), Low (educated guess from patterns).

After the table, list all sources as markdown links: [Source Name](URL).

If you cannot find sufficient current information, explain your search process instead of inventing contacts.
`,
		company.Name, company.Website, company.Country, industry,
		company.Website, company.Website, company.Website, company.Website,
		company.Name)

	if domain != "" {
		fmt.Fprintf(&b, "\nPrefer emails on the company domain %s.\n", domain)
	}
	return b.String()
}
