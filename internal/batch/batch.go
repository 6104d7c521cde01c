package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/contactsmith/contactsmith/internal/models"
)

// ReadCompanies loads a batch input file. The expected shape is a CSV
// with a header row naming at least "company" and "website"; "country"
// and "industry" columns are optional.
func ReadCompanies(path string) ([]models.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	companies, err := ParseCompanies(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return companies, nil
}

// ParseCompanies parses batch CSV content from a reader.
func ParseCompanies(r io.Reader) ([]models.Company, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	companyCol, ok := columns["company"]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", "company")
	}
	websiteCol, ok := columns["website"]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", "website")
	}

	var companies []models.Company
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		company := models.Company{
			Name:    cell(record, companyCol),
			Website: cell(record, websiteCol),
		}
		if col, ok := columns["country"]; ok {
			company.Country = cell(record, col)
		}
		if col, ok := columns["industry"]; ok {
			company.Industry = cell(record, col)
		}

		if company.Name == "" && company.Website == "" {
			continue
		}
		if company.Website == "" {
			return nil, fmt.Errorf("row for %q has no website", company.Name)
		}
		if !strings.Contains(company.Website, "://") {
			company.Website = "https://" + company.Website
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func cell(record []string, col int) string {
	if col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}
