package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsmith/contactsmith/internal/models"
)

const sampleReply = `Here is what I found about Acme GmbH:

| Name | Role | Profile URL | Email | Phone | Source | Confidence |
|------|------|-------------|-------|-------|--------|------------|
| Hans Mueller | CEO | https://linkedin.com/in/hmueller | Hans.Mueller@acme.de | +49 30 1234567 | LinkedIn | High |
| Anna Schmidt | Head of Sales | | a.schmidt@acme.de (estimated) | | Company website | Medium |
| | | | info@acme.de | | Impressum | High |

Sources:
- [Acme Impressum](https://acme.de/impressum)
- [Acme team page](https://acme.de/team)
- [Acme team page](https://acme.de/team)
`

func TestParseContactTable(t *testing.T) {
	rows := ParseContactTable(sampleReply)
	require.Len(t, rows, 3)

	assert.Equal(t, "Hans Mueller", rows[0].Name)
	assert.Equal(t, "CEO", rows[0].Role)
	assert.Equal(t, "https://linkedin.com/in/hmueller", rows[0].ProfileURL)
	assert.Equal(t, "hans.mueller@acme.de", rows[0].Email)
	assert.Equal(t, "+49 30 1234567", rows[0].Phone)
	assert.Equal(t, "LinkedIn", rows[0].Source)
	assert.Equal(t, "High", rows[0].Confidence)

	assert.Equal(t, "Anna Schmidt", rows[1].Name)
	assert.Equal(t, "Head of Sales", rows[1].Role)
	assert.Empty(t, rows[1].ProfileURL)

	// Nameless rows survive when they still carry a reachable address.
	assert.Empty(t, rows[2].Name)
	assert.Equal(t, "info@acme.de", rows[2].Email)
	assert.Equal(t, "Impressum", rows[2].Source)
}

func TestParseContactTableDropsSparseRows(t *testing.T) {
	reply := `| Name | Role | Email |
|------|------|-------|
| Hans Mueller | CEO | hans@acme.de |
| Anna Schmidt | | |
`
	rows := ParseContactTable(reply)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hans Mueller", rows[0].Name)
}

func TestParseContactTableDefaultsSource(t *testing.T) {
	reply := `| Name | Role | Email |
|------|------|-------|
| Hans Mueller | CEO | hans@acme.de |
`
	rows := ParseContactTable(reply)
	require.Len(t, rows, 1)
	assert.Equal(t, "ai_research", rows[0].Source)
}

func TestParseContactTableNoTable(t *testing.T) {
	assert.Empty(t, ParseContactTable("I could not find any contact information."))
}

func TestParseCitations(t *testing.T) {
	citations := ParseCitations(sampleReply)
	require.Len(t, citations, 2)

	assert.Equal(t, models.Citation{Title: "Acme Impressum", URL: "https://acme.de/impressum"}, citations[0])
	// The duplicated team-page link collapses to one citation.
	assert.Equal(t, "https://acme.de/team", citations[1].URL)
}

func TestBuildPrompt(t *testing.T) {
	company := models.Company{
		Name:    "Acme GmbH",
		Website: "https://www.acme.de",
		Country: "Germany",
	}

	prompt := BuildPrompt(company)

	assert.Contains(t, prompt, "Acme GmbH")
	assert.Contains(t, prompt, "acme.de/impressum")
	assert.Contains(t, prompt, "| Name | Role | Profile URL | Email | Phone | Source | Confidence |")
	assert.Contains(t, prompt, "Industry: unknown")
}
