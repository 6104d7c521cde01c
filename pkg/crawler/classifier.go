package crawler

import (
	"net/url"
	"strings"

	"github.com/contactsmith/contactsmith/pkg/extractor"
)

// contactKeywords is the contact/about/team/legal-notice vocabulary in
// English and German. Matching is a case-insensitive substring check on
// the link path and anchor text, so it over-matches by design intent
// ("contactless" counts).
var contactKeywords = []string{
	"contact",
	"kontakt",
	"about",
	"team",
	"impressum",
	"imprint",
	"legal",
	"leadership",
	"management",
	"people",
	"staff",
	"office",
	"address",
	"standort",
	"ueber-uns",
	"uber-uns",
	"unternehmen",
	"ansprechpartner",
}

// nonContentExtensions are path suffixes that never lead to crawlable
// HTML.
var nonContentExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
	".zip", ".gz", ".tar", ".rar",
	".mp3", ".mp4", ".avi", ".mov",
	".css", ".js", ".xml", ".json",
}

// classifyLinks splits a page's outbound links into contact-priority and
// internal-other URLs. Links to external domains and non-content assets
// are dropped. Both sequences keep discovery order.
func classifyLinks(links []extractor.Link, internalDomains map[string]bool) (contactLinks, internalLinks []string) {
	for _, link := range links {
		u, err := url.Parse(link.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if !isInternalHost(u.Hostname(), internalDomains) {
			continue
		}
		if hasNonContentExtension(u.Path) {
			continue
		}
		if isContactLink(u.Path, link.AnchorText) {
			contactLinks = append(contactLinks, link.URL)
		} else {
			internalLinks = append(internalLinks, link.URL)
		}
	}
	return contactLinks, internalLinks
}

func isContactLink(path, anchorText string) bool {
	haystack := strings.ToLower(path) + " " + strings.ToLower(anchorText)
	for _, keyword := range contactKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func isInternalHost(host string, internalDomains map[string]bool) bool {
	host = strings.ToLower(host)
	if internalDomains[host] {
		return true
	}
	return internalDomains[strings.TrimPrefix(host, "www.")]
}

func hasNonContentExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range nonContentExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
