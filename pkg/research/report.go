package research

import (
	"regexp"
	"strings"

	"github.com/contactsmith/contactsmith/internal/models"
)

var citationRegex = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)

// ParseContactTable extracts contact rows from the first markdown table
// in a research reply. The parser is tolerant: missing cells become
// empty fields, rows with fewer than three populated cells are dropped.
func ParseContactTable(report string) []models.ContactRow {
	var header []string
	var rows []models.ContactRow

	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || strings.Contains(line, "---") {
			continue
		}

		cells := splitTableRow(line)
		if len(cells) == 0 {
			continue
		}

		if header == nil {
			header = make([]string, len(cells))
			for i, cell := range cells {
				header[i] = strings.ToLower(strings.TrimSpace(cell))
			}
			continue
		}

		populated := 0
		for _, cell := range cells {
			if strings.TrimSpace(cell) != "" {
				populated++
			}
		}
		if populated < 3 {
			continue
		}

		row := models.ContactRow{Source: "ai_research"}
		for i, cell := range cells {
			if i >= len(header) {
				break
			}
			value := strings.TrimSpace(cell)
			switch {
			case strings.Contains(header[i], "name"):
				row.Name = value
			case strings.Contains(header[i], "role") || strings.Contains(header[i], "title"):
				row.Role = value
			case strings.Contains(header[i], "profile") || strings.Contains(header[i], "linkedin") || strings.Contains(header[i], "xing"):
				row.ProfileURL = value
			case strings.Contains(header[i], "email"):
				row.Email = strings.ToLower(value)
			case strings.Contains(header[i], "phone"):
				row.Phone = value
			case strings.Contains(header[i], "confidence"):
				row.Confidence = value
			case strings.Contains(header[i], "source"):
				if value != "" {
					row.Source = value
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseCitations collects the markdown source links cited in a reply.
func ParseCitations(report string) []models.Citation {
	var citations []models.Citation
	seen := make(map[string]bool)
	for _, match := range citationRegex.FindAllStringSubmatch(report, -1) {
		if seen[match[2]] {
			continue
		}
		seen[match[2]] = true
		citations = append(citations, models.Citation{Title: match[1], URL: match[2]})
	}
	return citations
}

// splitTableRow splits a markdown table line into cells, dropping the
// empty leading/trailing cells produced by the outer pipes.
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
