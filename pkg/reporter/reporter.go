package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/contactsmith/contactsmith/internal/models"
)

// Reporter serializes crawl snapshots and merged contact tables to disk.
type Reporter struct {
	outDir string
	logger *log.Logger
}

// New creates a Reporter writing into outDir, creating it if needed.
func New(outDir string) (*Reporter, error) {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	return &Reporter{
		outDir: outDir,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "reporter"}),
	}, nil
}

// SetLogger replaces the default logger.
func (r *Reporter) SetLogger(logger *log.Logger) { r.logger = logger }

// WriteCrawlResult exports one crawl run. Format is "csv" or "json";
// JSON carries the full snapshot, CSV flattens it to category/value
// rows.
func (r *Reporter) WriteCrawlResult(result *models.CrawlResult, format string) (string, error) {
	name := fmt.Sprintf("%s_crawl_%s.%s", slug(result.Company, result.SeedURL), timestamp(), normalizeFormat(format))
	path := filepath.Join(r.outDir, name)

	switch normalizeFormat(format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal crawl result: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	case "csv":
		if err := r.writeSnapshotCSV(path, result.Snapshot); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	r.logger.Info("crawl result written", "path", path, "status", string(result.Status))
	return path, nil
}

func (r *Reporter) writeSnapshotCSV(path string, snap models.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"category", "value"}); err != nil {
		return err
	}
	categories := []struct {
		name   string
		values []string
	}{
		{"email", snap.Emails},
		{"phone", snap.Phones},
		{"name", snap.Names},
		{"address", snap.Addresses},
		{"social_link", snap.SocialLinks},
		{"page_scraped", snap.PagesScraped},
		{"contact_page", snap.ContactPages},
	}
	for _, cat := range categories {
		for _, value := range cat.values {
			if err := w.Write([]string{cat.name, value}); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// WriteContacts exports a merged contact table for one company.
func (r *Reporter) WriteContacts(company string, rows []models.ContactRow, format string) (string, error) {
	name := fmt.Sprintf("%s_contacts_%s.%s", slug(company, ""), timestamp(), normalizeFormat(format))
	path := filepath.Join(r.outDir, name)

	switch normalizeFormat(format) {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal contacts: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		defer w.Flush()

		if err := w.Write([]string{"name", "role", "profile_url", "email", "phone", "source", "confidence"}); err != nil {
			return "", err
		}
		for _, row := range rows {
			record := []string{row.Name, row.Role, row.ProfileURL, row.Email, row.Phone, row.Source, row.Confidence}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
		if err := w.Error(); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	r.logger.Info("contact table written", "path", path, "rows", len(rows))
	return path, nil
}

// MergeRows folds the three sources into one contact table: crawl facts
// first, then registration contacts, then research rows. Duplicate
// emails collapse into the earliest row.
func MergeRows(result *models.CrawlResult, registration *models.WhoisContacts, report *models.ResearchReport) []models.ContactRow {
	var rows []models.ContactRow
	seenEmail := make(map[string]bool)

	appendRow := func(row models.ContactRow) {
		if row.Email != "" {
			if seenEmail[row.Email] {
				return
			}
			seenEmail[row.Email] = true
		}
		rows = append(rows, row)
	}

	if result != nil {
		for _, email := range result.Snapshot.Emails {
			appendRow(models.ContactRow{Email: email, Source: "website_crawl", Confidence: "High"})
		}
		for _, phone := range result.Snapshot.Phones {
			appendRow(models.ContactRow{Phone: phone, Source: "website_crawl", Confidence: "High"})
		}
		for _, name := range result.Snapshot.Names {
			appendRow(models.ContactRow{Name: name, Source: "website_crawl", Confidence: "Medium"})
		}
		for _, link := range result.Snapshot.SocialLinks {
			appendRow(models.ContactRow{ProfileURL: link, Source: "website_crawl", Confidence: "Medium"})
		}
	}

	if registration != nil {
		for _, email := range []string{registration.AdminEmail, registration.TechEmail, registration.RegistrarEmail} {
			if email != "" {
				appendRow(models.ContactRow{
					Name:       registration.Organization,
					Email:      email,
					Source:     "whois",
					Confidence: "Medium",
				})
			}
		}
	}

	if report != nil {
		for _, row := range report.Contacts {
			appendRow(row)
		}
	}

	return rows
}

func slug(company, fallback string) string {
	s := company
	if s == "" {
		s = fallback
	}
	if s == "" {
		s = "run"
	}
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "run"
	}
	return out
}

func timestamp() string {
	return time.Now().Format("20060102_1504")
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return "csv"
	}
	return format
}
