package models

import "time"

// Company is one research target, typically a row from a batch CSV.
type Company struct {
	Name     string `json:"company"`
	Website  string `json:"website"`
	Country  string `json:"country"`
	Industry string `json:"industry,omitempty"`
}

// CrawlStatus is the terminal state of a crawl run.
type CrawlStatus string

const (
	// StatusCompleted means the frontier drained before any budget was hit.
	StatusCompleted CrawlStatus = "completed"
	// StatusBudgetExhausted means the page budget was reached first.
	StatusBudgetExhausted CrawlStatus = "budget_exhausted"
	// StatusTimedOut means the wall-clock budget elapsed; the snapshot
	// holds whatever was collected up to that point.
	StatusTimedOut CrawlStatus = "timed_out"
)

// Phone is one extracted phone number. Digits is the match with every
// non-digit character except a leading + stripped; Display is the text
// as it appeared on the page.
type Phone struct {
	Digits  string `json:"digits"`
	Display string `json:"display"`
}

// Snapshot is the deduplicated output of one crawl run. Each set keeps
// discovery order. It is immutable once returned by the crawler.
type Snapshot struct {
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	Names        []string `json:"names"`
	Addresses    []string `json:"addresses"`
	SocialLinks  []string `json:"social_links"`
	PagesScraped []string `json:"pages_scraped"`
	ContactPages []string `json:"contact_pages"`
}

// CrawlResult couples a snapshot with its terminal state and bookkeeping.
type CrawlResult struct {
	Company   string        `json:"company,omitempty"`
	SeedURL   string        `json:"seed_url"`
	Status    CrawlStatus   `json:"status"`
	Snapshot  Snapshot      `json:"snapshot"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// WhoisContacts is the subset of a domain registration record that is
// useful for contact discovery.
type WhoisContacts struct {
	Domain         string `json:"domain"`
	Organization   string `json:"org_name,omitempty"`
	RegistrarEmail string `json:"registrar_email,omitempty"`
	AdminEmail     string `json:"admin_email,omitempty"`
	TechEmail      string `json:"tech_email,omitempty"`
}

// ContactRow is one row of the merged contact table exported per company.
// Shape follows the research report table: name, role, profile, email,
// phone, source, confidence.
type ContactRow struct {
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Source     string `json:"source"`
	Confidence string `json:"confidence,omitempty"`
}

// ResearchReport is the parsed output of one language-model research run.
type ResearchReport struct {
	Company   string       `json:"company"`
	Raw       string       `json:"raw"`
	Contacts  []ContactRow `json:"contacts"`
	Sources   []Citation   `json:"sources"`
	Model     string       `json:"model"`
	CreatedAt time.Time    `json:"created_at"`
}

// Citation is one source link cited by the research report.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
