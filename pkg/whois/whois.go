package whois

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/contactsmith/contactsmith/internal/models"
)

// Client looks up domain-registration contacts. Lookups are best-effort:
// many registries redact contact data, so an empty result is normal.
type Client struct {
	client *whois.Client
	logger *log.Logger
}

// New creates a WHOIS client with the given query timeout.
func New(timeout time.Duration) *Client {
	c := whois.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{
		client: c,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "whois"}),
	}
}

// SetLogger replaces the default logger.
func (c *Client) SetLogger(logger *log.Logger) { c.logger = logger }

// Lookup queries the registration record for a domain and maps it to the
// contact fields worth keeping. The domain may be given as a bare host
// or a full URL.
func (c *Client) Lookup(domain string) (*models.WhoisContacts, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, fmt.Errorf("whois: empty domain")
	}

	raw, err := c.client.Whois(domain)
	if err != nil {
		return nil, fmt.Errorf("whois query for %s: %w", domain, err)
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("whois parse for %s: %w", domain, err)
	}

	contacts := &models.WhoisContacts{Domain: domain}
	if parsed.Registrant != nil {
		contacts.Organization = parsed.Registrant.Organization
		contacts.RegistrarEmail = strings.ToLower(parsed.Registrant.Email)
	}
	if parsed.Administrative != nil {
		contacts.AdminEmail = strings.ToLower(parsed.Administrative.Email)
	}
	if parsed.Technical != nil {
		contacts.TechEmail = strings.ToLower(parsed.Technical.Email)
	}
	if contacts.Organization == "" && parsed.Registrar != nil {
		contacts.Organization = parsed.Registrar.Name
	}

	c.logger.Debug("whois lookup complete",
		"domain", domain,
		"org", contacts.Organization,
		"has_admin_email", contacts.AdminEmail != "")

	return contacts, nil
}

// NormalizeDomain strips scheme, path and a leading www from a website
// string, leaving the bare registrable host.
func NormalizeDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if strings.Contains(website, "://") {
		if u, err := url.Parse(website); err == nil && u.Hostname() != "" {
			website = u.Hostname()
		}
	}
	website = strings.TrimPrefix(strings.ToLower(website), "www.")
	if idx := strings.IndexAny(website, "/?#"); idx >= 0 {
		website = website[:idx]
	}
	return website
}
